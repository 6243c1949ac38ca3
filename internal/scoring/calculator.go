package scoring

import (
	"fmt"
	"math"
	"strings"
)

// Calculator converts one resolved raw value into a bounded 0-10 score under
// a criterion's compiled policy. It is a pure function of its inputs.
type Calculator struct {
	partialCredit bool
}

// NewCalculator creates a calculator. When partialCredit is set, values that
// miss a threshold bound earn linear credit by shortfall ratio instead of a
// flat zero; the default is the binary 10-or-0 rule.
func NewCalculator(partialCredit bool) *Calculator {
	return &Calculator{partialCredit: partialCredit}
}

// Score maps a resolved value to a 0-10 score under cc's policy. An
// unresolved value (found == false) short-circuits to 0 regardless of policy.
func (calc *Calculator) Score(cc *CompiledCriterion, value any, found bool) float64 {
	if !found {
		return 0
	}

	switch cc.Kind {
	case PolicyIntervals:
		return calc.scoreIntervals(cc, value)
	case PolicyThreshold:
		return calc.scoreThreshold(cc, value)
	case PolicyPreferred:
		return calc.scorePreferred(cc, value)
	default:
		return 0
	}
}

// WeightedContribution scales a 0-10 score by the criterion weight.
func (calc *Calculator) WeightedContribution(cc *CompiledCriterion, score float64) float64 {
	return score / 10 * cc.Weight
}

// scoreIntervals evaluates the interval predicates in declared order; the
// first match wins, no match scores 0.
func (calc *Calculator) scoreIntervals(cc *CompiledCriterion, value any) float64 {
	str, num := normalizeValue(value)
	for i, m := range cc.matchers {
		if m(str, num) {
			return cc.Criterion.ScoringIntervals[i].Score
		}
	}
	return 0
}

// scoreThreshold awards 10 when the value is numeric and within
// [min_value, max_value], an absent bound being unbounded on that side.
func (calc *Calculator) scoreThreshold(cc *CompiledCriterion, value any) float64 {
	_, num := normalizeValue(value)
	if num == nil {
		return 0
	}
	v := *num

	min, max := cc.Criterion.MinValue, cc.Criterion.MaxValue
	if (min == nil || v >= *min) && (max == nil || v <= *max) {
		return 10
	}

	if !calc.partialCredit {
		return 0
	}

	// Linear credit against the violated bound, clamped to [0,10].
	switch {
	case min != nil && v < *min && *min > 0:
		return clamp10(v / *min * 10)
	case max != nil && v > *max && v > 0:
		return clamp10(*max / v * 10)
	default:
		return 0
	}
}

// scorePreferred awards 10 on a case-insensitive exact string match.
func (calc *Calculator) scorePreferred(cc *CompiledCriterion, value any) float64 {
	want := strings.ToLower(strings.TrimSpace(*cc.Criterion.PreferredValue))
	got := strings.ToLower(strings.TrimSpace(formatValue(value)))
	if got != "" && got == want {
		return 10
	}
	return 0
}

// IdealValue renders the display value a case would need to earn full marks
// under cc's policy: the first interval scoring 10 (or the highest-scoring
// interval when none does), the threshold bounds, or the preferred value.
func IdealValue(cc *CompiledCriterion) string {
	switch cc.Kind {
	case PolicyIntervals:
		best := -1
		for i, iv := range cc.Criterion.ScoringIntervals {
			if iv.Score == 10 {
				return iv.Range
			}
			if best < 0 || iv.Score > cc.Criterion.ScoringIntervals[best].Score {
				best = i
			}
		}
		if best >= 0 {
			return cc.Criterion.ScoringIntervals[best].Range
		}
		return ""
	case PolicyThreshold:
		min, max := cc.Criterion.MinValue, cc.Criterion.MaxValue
		switch {
		case min != nil && max != nil:
			return fmt.Sprintf("%s - %s", trimFloat(*min), trimFloat(*max))
		case min != nil:
			return fmt.Sprintf(">= %s", trimFloat(*min))
		case max != nil:
			return fmt.Sprintf("<= %s", trimFloat(*max))
		}
		return ""
	case PolicyPreferred:
		return *cc.Criterion.PreferredValue
	default:
		return ""
	}
}

func trimFloat(f float64) string {
	return formatValue(f)
}

func clamp10(v float64) float64 {
	return math.Max(0, math.Min(10, v))
}
