// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tunreplay/internal/platform/migration"
)

/*
TestToPgx5DSN rewrites only postgres schemes.
*/
func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://u:p@db:5432/tunreplay", "pgx5://u:p@db:5432/tunreplay"},
		{"postgresql://db/tunreplay?sslmode=disable", "pgx5://db/tunreplay?sslmode=disable"},
		{"pgx5://db/tunreplay", "pgx5://db/tunreplay"},
		{"host=db dbname=tunreplay", "host=db dbname=tunreplay"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, migration.ToPgx5DSN(tt.dsn))
		})
	}
}
