// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer holds generic helpers for optional values.

Optional columns (release date, nation, season) and optional arguments such as
the excludeID of a slug uniqueness check are modelled as pointers.
*/
package pointer

// To returns a pointer to v (e.g. pointer.To[int64](42)).
func To[T any](v T) *T {
	return &v
}
