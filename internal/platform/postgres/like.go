// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE metacharacters of s for the default '\' escape.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Contains returns an ILIKE/LIKE pattern matching s anywhere.
func Contains(s string) string {
	return "%" + EscapeLike(s) + "%"
}
