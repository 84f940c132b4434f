package address_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/tunreplay/internal/core/address"
)

/*
TestDecode percent-decodes only well-formed UTF-8 escapes.
*/
func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "breaking-bad", "breaking-bad"},
		{"arabic_escaped", url.PathEscape("الحلقة-1"), "الحلقة-1"},
		{"malformed_escape", "100%zz", "100%zz"},
		{"invalid_utf8", "%FF%FE", "%FF%FE"},
		{"already_decoded", "الحلقة-1", "الحلقة-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, address.Decode(tt.raw))
		})
	}
}

/*
TestFold maps look-alike dashes and normalization forms onto one key.
*/
func TestFold(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hyphen_u2010", "الحلقة\u20101", "الحلقة-1"},
		{"non_breaking_hyphen", "الحلقة\u20111", "الحلقة-1"},
		{"en_dash", "a\u2013b", "a-b"},
		{"em_dash", "a\u2014b", "a-b"},
		{"minus_sign", "a\u2212b", "a-b"},
		{"uppercase", "Serie-Accident", "serie-accident"},
		{"decomposed_arabic", "آخر", "آخر"},
		{"surrounding_space", "  lost ", "lost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, address.Fold(tt.in))
		})
	}
}

/*
TestLatinSuffix extracts trailing ASCII segments that contain a letter.
*/
func TestLatinSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"مسلسل-الحادث-serie-accident", "serie-accident"},
		{"serie-accident", "serie-accident"},
		{"الحلقة-1", ""},
		{"مسلسل-2024-x", "2024-x"},
		{"مسلسل-الحادث", ""},
		{"lost-", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, address.LatinSuffix(tt.in))
		})
	}
}

/*
TestNewKey fills every form from one raw segment.
*/
func TestNewKey(t *testing.T) {
	raw := url.PathEscape(norm.NFD.String("\u0622خر\u2010Episode"))
	key := address.NewKey(raw)

	assert.Equal(t, raw, key.Raw)
	assert.Equal(t, norm.NFD.String("\u0622خر\u2010Episode"), key.Decoded)
	assert.Equal(t, "\u0622خر-episode", key.Folded)
	assert.Equal(t, norm.NFD.String("\u0622خر-episode"), key.Decomposed)
	assert.Equal(t, "episode", key.Suffix)
	assert.False(t, key.Empty())

	assert.True(t, address.NewKey("   ").Empty())
}
