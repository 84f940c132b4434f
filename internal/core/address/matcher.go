package address

import (
	"context"

	"github.com/taibuivan/tunreplay/internal/platform/apperr"
	"github.com/taibuivan/tunreplay/internal/platform/ctxutil"
	"github.com/taibuivan/tunreplay/internal/platform/ratelimit"
)

// Request is one resolution attempt handed to each [Matcher].
type Request struct {
	Scope      Scope
	Key        Key
	Candidates []Candidate
}

// Matcher is one tier of the fallback chain.
//
// Match returns the distinct ids it found; an empty slice means "try the next
// tier". An error aborts the chain.
type Matcher interface {
	Tier() Tier
	Match(ctx context.Context, request *Request) ([]int64, error)
}

// ExactNormalized compares the folded key against each folded candidate, in
// both composed and decomposed forms, and the raw key against the raw slug.
type ExactNormalized struct{}

func (ExactNormalized) Tier() Tier { return TierExactNormalized }

func (ExactNormalized) Match(_ context.Context, request *Request) ([]int64, error) {
	key := request.Key

	var ids idSet
	for _, candidate := range request.Candidates {
		folded := Fold(candidate.Slug)
		if folded == key.Folded || candidate.Slug == key.Raw || nfd(folded) == key.Decomposed {
			ids.add(candidate.ID)
		}
	}
	return ids.list(), nil
}

// LatinSuffixMatcher matches candidates whose trailing ASCII segments equal the
// key's. Keys without such a suffix never match here.
type LatinSuffixMatcher struct{}

func (LatinSuffixMatcher) Tier() Tier { return TierLatinSuffix }

func (LatinSuffixMatcher) Match(_ context.Context, request *Request) ([]int64, error) {
	suffix := request.Key.Suffix
	if suffix == "" {
		return nil, nil
	}

	var ids idSet
	for _, candidate := range request.Candidates {
		if LatinSuffix(Fold(candidate.Slug)) == suffix {
			ids.add(candidate.ID)
		}
	}
	return ids.list(), nil
}

// SuffixFinder is the store capability behind [StoreSubstring].
type SuffixFinder interface {
	// SlugsEndingWith returns at most limit rows of scope whose slug ends with
	// suffix.
	SlugsEndingWith(ctx context.Context, scope Scope, suffix string, limit int) ([]Candidate, error)
}

// StoreSubstring asks the store for slugs ending in "-" plus the key's Latin
// suffix (or the whole folded key when it has none). It fetches two rows so a
// second hit is reported as ambiguity.
type StoreSubstring struct {
	Finder SuffixFinder
}

func (StoreSubstring) Tier() Tier { return TierStoreSubstring }

func (matcher StoreSubstring) Match(ctx context.Context, request *Request) ([]int64, error) {
	needle := request.Key.Suffix
	if needle == "" {
		needle = request.Key.Folded
	}

	rows, err := matcher.Finder.SlugsEndingWith(ctx, request.Scope, "-"+needle, 2)
	if err != nil {
		return nil, err
	}

	var ids idSet
	for _, row := range rows {
		ids.add(row.ID)
	}
	return ids.list(), nil
}

// Throttled guards an expensive matcher with a per-client limiter.
//
// A denial aborts the chain with a rate-limit error. A limiter that is itself
// failing lets the request through.
type Throttled struct {
	Matcher Matcher
	Limiter ratelimit.Limiter
	Scope   string
}

func (throttled Throttled) Tier() Tier { return throttled.Matcher.Tier() }

func (throttled Throttled) Match(ctx context.Context, request *Request) ([]int64, error) {
	client := ctxutil.GetClientIP(ctx)
	if client == "" {
		client = "local"
	}

	decision, err := throttled.Limiter.Check(ctx, throttled.Scope+":"+client)
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "rate_limiter_unavailable",
			"scope", throttled.Scope, "error", err)
		return throttled.Matcher.Match(ctx, request)
	}
	if !decision.Allowed {
		return nil, apperr.RateLimited(decision.RetryAfterSeconds())
	}

	return throttled.Matcher.Match(ctx, request)
}

// idSet collects ids once each, keeping first-seen order.
type idSet struct {
	seen  map[int64]struct{}
	order []int64
}

func (set *idSet) add(id int64) {
	if set.seen == nil {
		set.seen = make(map[int64]struct{})
	}
	if _, ok := set.seen[id]; ok {
		return
	}
	set.seen[id] = struct{}{}
	set.order = append(set.order, id)
}

func (set *idSet) list() []int64 {
	return set.order
}
