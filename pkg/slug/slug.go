// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns human-edited titles into URL slugs and allocates slugs that
// are free within a collection.
//
// # Usage
//
// Slugs identify series, episodes and facets in public URLs
// (e.g. "/series/مسلسل-الحادث-serie-accident"). The catalogue is Arabic-first, so
// unlike an ASCII slugifier this package keeps the Arabic block intact and only
// removes punctuation, symbols and other scripts.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// whitespaceRun matches runs of spaces left after filtering.
	whitespaceRun = regexp.MustCompile(` +`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// Arabic block bounds (U+0600..U+06FF), letters, digits and harakat included.
const (
	arabicFirst = '\u0600'
	arabicLast  = '\u06FF'
)

// Normalize converts an arbitrary label into a canonical URL slug.
//
// # Transformation Pipeline
//
// 1. Composes to NFC so composed and decomposed titles agree.
// 2. Converts to lowercase.
// 3. Drops everything except [a-z0-9_], whitespace, '-' and the Arabic block.
// 4. Replaces whitespace runs with a single hyphen.
// 5. Collapses hyphen runs and trims leading/trailing hyphens.
//
// Empty or whitespace-only input yields "". Normalize(Normalize(s)) == Normalize(s).
func Normalize(label string) string {
	// 1. Canonical composition, then lowercase
	result := strings.ToLower(norm.NFC.String(label))

	// 2. Strip characters outside the allowed set
	result = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case isAllowed(r):
			return r
		default:
			return -1
		}
	}, result)

	// 3. Whitespace becomes hyphens
	result = strings.TrimSpace(result)
	result = whitespaceRun.ReplaceAllString(result, "-")

	// 4. Clean up hyphenation
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	// Removing characters can bring an Arabic base and mark together again.
	return norm.NFC.String(result)
}

// isAllowed reports whether r survives normalization.
func isAllowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
		return true
	default:
		return r >= arabicFirst && r <= arabicLast
	}
}
