package address

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// minusSign is U+2212, which is Sm rather than Pd but renders as a dash.
const minusSign = '−'

// Key is an incoming segment prepared for comparison.
type Key struct {
	// Raw is the segment as received.
	Raw string
	// Decoded is Raw percent-decoded, or Raw when decoding was not possible.
	Decoded string
	// Folded is Decoded in NFC with every dash folded to '-'.
	Folded string
	// Decomposed is Folded in NFD.
	Decomposed string
	// Suffix is the trailing run of ASCII segments of Folded, or "".
	Suffix string
}

// NewKey prepares raw for matching.
func NewKey(raw string) Key {
	decoded := Decode(raw)
	folded := Fold(decoded)

	return Key{
		Raw:        raw,
		Decoded:    decoded,
		Folded:     folded,
		Decomposed: nfd(folded),
		Suffix:     LatinSuffix(folded),
	}
}

// Empty reports whether there is nothing to resolve.
func (key Key) Empty() bool {
	return key.Folded == ""
}

// Decode percent-decodes s when it contains an escape marker. Malformed or
// non-UTF-8 escapes leave s unchanged.
func Decode(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	decoded, err := url.PathUnescape(s)
	if err != nil || !utf8.ValidString(decoded) {
		return s
	}
	return decoded
}

// Fold returns s in NFC, lower-cased and trimmed, with every Unicode dash
// (category Pd) and the minus sign replaced by '-'.
func Fold(s string) string {
	composed := norm.NFC.String(strings.TrimSpace(s))

	folded := strings.Map(func(r rune) rune {
		if r == minusSign || unicode.Is(unicode.Pd, r) {
			return '-'
		}
		return unicode.ToLower(r)
	}, composed)

	return norm.NFC.String(folded)
}

// LatinSuffix returns the trailing dash-delimited segments of s that are pure
// ASCII, provided they contain at least one ASCII letter.
//
//	LatinSuffix("مسلسل-الحادث-serie-accident") == "serie-accident"
//	LatinSuffix("الحلقة-1")                    == ""   (digits only)
func LatinSuffix(s string) string {
	segments := strings.Split(s, "-")

	first := len(segments)
	for first > 0 && isASCIISegment(segments[first-1]) {
		first--
	}
	if first == len(segments) {
		return ""
	}

	suffix := strings.Join(segments[first:], "-")
	if !strings.ContainsFunc(suffix, isASCIILetter) {
		return ""
	}
	return suffix
}

func isASCIISegment(segment string) bool {
	if segment == "" {
		return false
	}
	for i := 0; i < len(segment); i++ {
		if segment[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func nfd(s string) string {
	return norm.NFD.String(s)
}
