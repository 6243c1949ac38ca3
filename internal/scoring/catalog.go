package scoring

import (
	"strings"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

// PolicyKind identifies the scoring policy selected for a criterion at
// catalog build time. When several policies' fields are populated, intervals
// win over thresholds, thresholds over preferred value.
type PolicyKind int

const (
	PolicyNone PolicyKind = iota
	PolicyIntervals
	PolicyThreshold
	PolicyPreferred
)

// CompiledCriterion is a criterion with its policy selected, its parameter
// name normalized for resolution, and its interval predicates prebuilt.
type CompiledCriterion struct {
	Criterion  domain.Criterion
	Weight     float64
	Normalized string
	Kind       PolicyKind

	matchers []intervalMatcher // parallel to Criterion.ScoringIntervals
}

// Catalog is a validated, precompiled snapshot of an analysis's criteria.
type Catalog struct {
	criteria []*CompiledCriterion
	maxScore float64
}

// NewCatalog validates and compiles a criteria set. It fails with a
// ValidationError when a parameter is blank, a weight is negative, or an
// interval score falls outside [0,10]. A missing weight defaults to 1.
func NewCatalog(criteria []domain.Criterion) (*Catalog, error) {
	compiled := make([]*CompiledCriterion, 0, len(criteria))
	var maxScore float64

	for _, c := range criteria {
		name := strings.TrimSpace(c.Parameter)
		if name == "" {
			return nil, domain.NewValidationError("parameter", "criterion parameter must not be blank", c.Parameter)
		}

		weight := c.EffectiveWeight()
		if weight < 0 {
			return nil, domain.NewValidationError("weight", "criterion weight must not be negative", weight)
		}

		cc := &CompiledCriterion{
			Criterion:  c,
			Weight:     weight,
			Normalized: strings.ToLower(name),
			Kind:       selectPolicy(c),
		}

		if cc.Kind == PolicyIntervals {
			cc.matchers = make([]intervalMatcher, len(c.ScoringIntervals))
			for i, iv := range c.ScoringIntervals {
				if iv.Score < 0 || iv.Score > 10 {
					return nil, domain.NewValidationError("scoring_intervals",
						"interval score must be within [0,10]", iv.Score)
				}
				cc.matchers[i] = compileIntervalMatcher(iv.Range)
			}
		}

		compiled = append(compiled, cc)
		maxScore += weight
	}

	return &Catalog{criteria: compiled, maxScore: maxScore}, nil
}

func selectPolicy(c domain.Criterion) PolicyKind {
	switch {
	case len(c.ScoringIntervals) > 0:
		return PolicyIntervals
	case c.MinValue != nil || c.MaxValue != nil:
		return PolicyThreshold
	case c.PreferredValue != nil && strings.TrimSpace(*c.PreferredValue) != "":
		return PolicyPreferred
	default:
		return PolicyNone
	}
}

// Criteria returns the compiled criteria in declaration order.
func (cat *Catalog) Criteria() []*CompiledCriterion {
	return cat.criteria
}

// MaxPossibleScore is the sum of all criterion weights, independent of case
// data: each weight is attainable at most once.
func (cat *Catalog) MaxPossibleScore() float64 {
	return cat.maxScore
}

// Lookup finds a criterion by parameter name, case-insensitively.
func (cat *Catalog) Lookup(parameter string) (*CompiledCriterion, bool) {
	want := strings.ToLower(strings.TrimSpace(parameter))
	for _, cc := range cat.criteria {
		if cc.Normalized == want {
			return cc, true
		}
	}
	return nil, false
}
