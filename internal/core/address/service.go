package address

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/tunreplay/internal/platform/apperr"
	"github.com/taibuivan/tunreplay/internal/platform/ctxutil"
	"github.com/taibuivan/tunreplay/internal/platform/ratelimit"
	"github.com/taibuivan/tunreplay/internal/platform/validate"
	"github.com/taibuivan/tunreplay/pkg/slice"
	"github.com/taibuivan/tunreplay/pkg/slug"
)

// ThrottleScope keys the store fallback limiter.
const ThrottleScope = "slug_fallback"

// Observer receives one call per resolution.
type Observer interface {
	ObserveSlug(collection, tier, outcome string)
}

// Service resolves and allocates slugs for every collection.
type Service struct {
	store     Store
	resolver  *Resolver
	allocator slug.Allocator
	observer  Observer
	logger    *slog.Logger
}

// NewService wires the three tiers over store. The store tier is guarded by
// limiter; pass [ratelimit.Unlimited] to disable that.
func NewService(store Store, limiter ratelimit.Limiter, observer Observer, maxProbes int, logger *slog.Logger) *Service {
	resolver := NewResolver(
		ExactNormalized{},
		LatinSuffixMatcher{},
		Throttled{Matcher: StoreSubstring{Finder: store}, Limiter: limiter, Scope: ThrottleScope},
	)

	return &Service{
		store:     store,
		resolver:  resolver,
		allocator: slug.Allocator{MaxProbes: maxProbes},
		observer:  observer,
		logger:    logger,
	}
}

// ResolveSlug returns the id addressed by raw in scope.
//
// Not-found and ambiguous results are both reported as [apperr.NotFound];
// ambiguity is logged.
func (service *Service) ResolveSlug(ctx context.Context, scope Scope, raw string) (int64, error) {
	key := NewKey(raw)
	if key.Empty() {
		service.observe(scope, Result{Outcome: OutcomeNotFound, Tier: TierNone})
		return 0, apperr.NotFound(resourceName(scope))
	}

	candidates, err := service.store.ListSlugs(ctx, scope)
	if err != nil {
		return 0, err
	}

	result, err := service.resolver.Resolve(ctx, scope, key, candidates)
	if err != nil {
		return 0, err
	}
	service.observe(scope, result)

	switch result.Outcome {
	case OutcomeMatched:
		return result.ID, nil
	case OutcomeAmbiguous:
		service.logger.WarnContext(ctx, "slug_ambiguous",
			slog.String("collection", string(scope.Collection)),
			slog.Int64("parent_id", scope.ParentID),
			slog.String("slug", key.Folded),
			slog.String("tier", string(result.Tier)),
			slog.Any("matches", result.Matches),
		)
	}
	return 0, apperr.NotFound(resourceName(scope))
}

// AllocateUniqueSlug proposes a free slug for label in scope. excludeID lets
// a row keep its own slug on update.
func (service *Service) AllocateUniqueSlug(ctx context.Context, scope Scope, label string, excludeID *int64) (string, error) {
	exists := func(ctx context.Context, candidate string, excludeID *int64) (bool, error) {
		return service.store.SlugExists(ctx, scope, candidate, excludeID)
	}

	allocated, err := service.allocator.Allocate(ctx, label, excludeID, exists)
	if errors.Is(err, slug.ErrExhausted) {
		return "", apperr.Conflict("No free slug could be allocated for this title")
	}
	if err != nil {
		return "", err
	}
	return allocated, nil
}

// AssignSlug decides the slug a row is saved under.
//
// A supplied slug is normalized and must be free in scope. Without one the
// slug is allocated from label. Either way an empty result is a validation
// error on field "slug".
func (service *Service) AssignSlug(ctx context.Context, scope Scope, supplied, label string, excludeID *int64) (string, error) {
	if strings.TrimSpace(supplied) == "" {
		allocated, err := service.AllocateUniqueSlug(ctx, scope, label, excludeID)
		if err != nil {
			return "", err
		}
		if allocated == "" {
			return "", validate.RequiredError("slug", "The title has no characters usable in a slug")
		}
		return allocated, nil
	}

	normalized := slug.Normalize(supplied)
	if normalized == "" {
		return "", validate.RequiredError("slug", "The slug has no usable characters")
	}

	taken, err := service.store.SlugExists(ctx, scope, normalized, excludeID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", apperr.Conflict(fmt.Sprintf("Slug %q is already in use", normalized))
	}
	return normalized, nil
}

// SlugTaken reports whether candidate is used by a row other than excludeID.
func (service *Service) SlugTaken(ctx context.Context, scope Scope, candidate string, excludeID *int64) (bool, error) {
	return service.store.SlugExists(ctx, scope, candidate, excludeID)
}

// Form is one rendering of a slug with its bytes.
type Form struct {
	Text string `json:"text"`
	Hex  string `json:"hex"`
}

func formOf(s string) Form {
	return Form{Text: s, Hex: hex.EncodeToString([]byte(s))}
}

// CandidateDiagnosis is one stored slug as the matchers see it.
type CandidateDiagnosis struct {
	ID          int64  `json:"id"`
	Slug        Form   `json:"slug"`
	Folded      Form   `json:"folded"`
	LatinSuffix string `json:"latin_suffix,omitempty"`
}

// Diagnosis explains how a segment was (or was not) resolved.
type Diagnosis struct {
	Collection  Collection           `json:"collection"`
	ParentID    int64                `json:"parent_id,omitempty"`
	Received    Form                 `json:"received"`
	Decoded     Form                 `json:"decoded"`
	Folded      Form                 `json:"folded"`
	LatinSuffix string               `json:"latin_suffix,omitempty"`
	Candidates  []CandidateDiagnosis `json:"candidates"`
	Tiers       []Trace              `json:"tiers"`
	Result      Result               `json:"result"`
}

// Diagnose resolves raw like [Service.ResolveSlug] and reports every step.
// Tier errors are recorded in the trace rather than returned.
func (service *Service) Diagnose(ctx context.Context, scope Scope, raw string) (Diagnosis, error) {
	key := NewKey(raw)

	candidates, err := service.store.ListSlugs(ctx, scope)
	if err != nil {
		return Diagnosis{}, err
	}

	diagnosis := Diagnosis{
		Collection:  scope.Collection,
		ParentID:    scope.ParentID,
		Received:    formOf(key.Raw),
		Decoded:     formOf(key.Decoded),
		Folded:      formOf(key.Folded),
		LatinSuffix: key.Suffix,
		Candidates:  slice.Map(candidates, diagnoseCandidate),
		Tiers:       []Trace{},
	}
	if diagnosis.Candidates == nil {
		diagnosis.Candidates = []CandidateDiagnosis{}
	}

	result, traces, err := service.resolver.run(ctx, scope, key, candidates)
	if traces != nil {
		diagnosis.Tiers = traces
	}
	if err != nil {
		result = Result{Outcome: OutcomeNotFound, Tier: TierNone}
	}
	diagnosis.Result = result

	ctxutil.GetLogger(ctx).InfoContext(ctx, "slug_diagnosed",
		slog.String("collection", string(scope.Collection)),
		slog.String("outcome", string(result.Outcome)),
	)
	return diagnosis, nil
}

func diagnoseCandidate(candidate Candidate) CandidateDiagnosis {
	folded := Fold(candidate.Slug)
	return CandidateDiagnosis{
		ID:          candidate.ID,
		Slug:        formOf(candidate.Slug),
		Folded:      formOf(folded),
		LatinSuffix: LatinSuffix(folded),
	}
}

func (service *Service) observe(scope Scope, result Result) {
	if service.observer == nil {
		return
	}
	service.observer.ObserveSlug(string(scope.Collection), string(result.Tier), string(result.Outcome))
}

func resourceName(scope Scope) string {
	switch scope.Collection {
	case CollectionSeries:
		return "Series"
	case CollectionEpisodes:
		return "Episode"
	case CollectionTypes:
		return "Type"
	case CollectionNations:
		return "Nation"
	case CollectionGenres:
		return "Genre"
	case CollectionStatuses:
		return "Status"
	}
	return "Resource"
}
