// Package address maps incoming URL slugs to catalogue rows and proposes
// unique slugs for new ones.
//
// # Resolution
//
// A slug segment may arrive percent-encoded, in a different Unicode
// normalization form than the stored one, or with a look-alike dash. The
// [Resolver] runs an ordered list of [Matcher]s and stops at the first that
// finds anything:
//
//  1. [ExactNormalized]: decoded, NFC or NFD, dash-folded equality.
//  2. [LatinSuffixMatcher]: shared trailing ASCII segments ("...-serie-accident").
//  3. [StoreSubstring]: bounded ends-with lookup in the store.
//
// A tier that finds more than one row stops the chain as [OutcomeAmbiguous];
// the public boundary reports that as not found.
package address

import (
	"fmt"

	"github.com/taibuivan/tunreplay/internal/platform/apperr"
)

// Collection names a table whose rows are addressed by slug.
type Collection string

const (
	CollectionSeries   Collection = "series"
	CollectionEpisodes Collection = "episodes"
	CollectionTypes    Collection = "types"
	CollectionNations  Collection = "nations"
	CollectionGenres   Collection = "genres"
	CollectionStatuses Collection = "statuses"
)

// Collections lists every slugged collection.
var Collections = []Collection{
	CollectionSeries, CollectionEpisodes, CollectionTypes,
	CollectionNations, CollectionGenres, CollectionStatuses,
}

// ParseCollection validates a collection name from a URL.
func ParseCollection(name string) (Collection, error) {
	for _, collection := range Collections {
		if string(collection) == name {
			return collection, nil
		}
	}
	return "", apperr.NotFound(fmt.Sprintf("Collection %q", name))
}

// Scope is the namespace a slug is unique in.
//
// Episode slugs repeat across series, so episodes are scoped by ParentID (the
// series id). Every other collection ignores ParentID.
type Scope struct {
	Collection Collection
	ParentID   int64
}

// In returns the scope of collection with no parent.
func In(collection Collection) Scope {
	return Scope{Collection: collection}
}

// EpisodesOf returns the scope of a series' episodes.
func EpisodesOf(seriesID int64) Scope {
	return Scope{Collection: CollectionEpisodes, ParentID: seriesID}
}

// Candidate is one {id, slug} pair of a candidate set.
type Candidate struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
}

// Tier identifies a matching strategy.
type Tier string

const (
	TierExactNormalized Tier = "exact_normalized"
	TierLatinSuffix     Tier = "latin_suffix"
	TierStoreSubstring  Tier = "store_substring"
	TierNone            Tier = "none"
)

// Outcome is the internal verdict of a resolution.
type Outcome string

const (
	OutcomeMatched   Outcome = "matched"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeAmbiguous Outcome = "ambiguous"
)

// Result is the outcome of [Resolver.Resolve].
type Result struct {
	Outcome Outcome `json:"outcome"`

	// Tier is the tier that decided the outcome, or [TierNone].
	Tier Tier `json:"tier"`

	// ID is set only when Outcome is [OutcomeMatched].
	ID int64 `json:"id,omitempty"`

	// Matches holds the competing ids of an ambiguous result.
	Matches []int64 `json:"matches,omitempty"`
}
