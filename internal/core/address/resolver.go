package address

import "context"

// Resolver runs matchers in order until one finds something.
type Resolver struct {
	matchers []Matcher
}

// NewResolver builds a resolver over the given tiers, tried in order.
func NewResolver(matchers ...Matcher) *Resolver {
	return &Resolver{matchers: matchers}
}

// Trace records one tier's verdict for diagnostics.
type Trace struct {
	Tier    Tier    `json:"tier"`
	Matches []int64 `json:"matches"`
	Error   string  `json:"error,omitempty"`
}

// Resolve maps key to a single id among candidates.
//
// An empty key is not found without consulting any tier. The first tier with
// exactly one match wins; a tier with several stops the chain as ambiguous.
// Errors from a tier abort resolution and are returned unchanged.
func (resolver *Resolver) Resolve(ctx context.Context, scope Scope, key Key, candidates []Candidate) (Result, error) {
	result, _, err := resolver.run(ctx, scope, key, candidates)
	return result, err
}

func (resolver *Resolver) run(ctx context.Context, scope Scope, key Key, candidates []Candidate) (Result, []Trace, error) {
	notFound := Result{Outcome: OutcomeNotFound, Tier: TierNone}
	if key.Empty() {
		return notFound, nil, nil
	}

	request := &Request{Scope: scope, Key: key, Candidates: candidates}

	var traces []Trace
	for _, matcher := range resolver.matchers {
		ids, err := matcher.Match(ctx, request)
		trace := Trace{Tier: matcher.Tier(), Matches: ids}
		if err != nil {
			trace.Error = err.Error()
			return Result{}, append(traces, trace), err
		}
		traces = append(traces, trace)

		switch {
		case len(ids) == 1:
			return Result{Outcome: OutcomeMatched, Tier: matcher.Tier(), ID: ids[0]}, traces, nil
		case len(ids) > 1:
			return Result{Outcome: OutcomeAmbiguous, Tier: matcher.Tier(), Matches: ids}, traces, nil
		}
	}

	return notFound, traces, nil
}
