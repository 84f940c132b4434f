// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies pgx and PostgreSQL errors into [apperr.AppError]s.
//
// # Mapping
//
//   - pgx.ErrNoRows: NOT_FOUND for the named resource.
//   - SQLSTATE 23505 (unique_violation): CONFLICT.
//   - SQLSTATE 23503 (foreign_key_violation): VALIDATION_ERROR.
//   - Class 08 (connection exception), dial and timeout failures: STORE_UNAVAILABLE.
//   - Anything else: INTERNAL_ERROR.
package dberr

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/tunreplay/internal/platform/apperr"
)

// Wrap inspects a database error and returns the matching [apperr.AppError].
//
// resource names the entity in NOT_FOUND messages (e.g. "Series").
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if apperr.As(err) != nil {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case IsUniqueViolation(err):
			return apperr.Conflict(fmt.Sprintf("%s already exists", resource)).WithCause(err)
		case pgErr.Code == pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError(fmt.Sprintf("%s references a missing record", resource)).WithCause(err)
		case pgerrcode.IsConnectionException(pgErr.Code):
			return apperr.StoreUnavailable(err)
		}
		return apperr.Internal(err)
	}

	if IsUnavailable(err) {
		return apperr.StoreUnavailable(err)
	}

	return apperr.Internal(err)
}

// IsUnavailable reports whether err means the database could not be reached.
func IsUnavailable(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique_violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
