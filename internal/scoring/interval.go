package scoring

import (
	"regexp"
	"strconv"
	"strings"
)

// intervalMatcher reports whether a resolved value matches one interval row.
// It receives the value's folded string form and, when extractable, its
// numeric form. Matchers are compiled once at catalog build time.
type intervalMatcher func(str string, num *float64) bool

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// stripUnits removes the unit noise that spreadsheet authors attach to
// numbers ("1000 cr+", "6 months and above") so thresholds parse cleanly.
func stripUnits(s string) string {
	r := strings.NewReplacer("crore", "", "cr", "", "months", "", "month", "", ",", "")
	return strings.TrimSpace(r.Replace(s))
}

// firstNumber extracts the first number embedded in s.
func firstNumber(s string) (float64, bool) {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// allNumbers extracts every number embedded in s, in order.
func allNumbers(s string) []float64 {
	var out []float64
	for _, m := range numberPattern.FindAllString(s, -1) {
		if f, err := strconv.ParseFloat(m, 64); err == nil {
			out = append(out, f)
		}
	}
	return out
}

func numericMatcher(cmp func(v, t float64) bool, t float64) intervalMatcher {
	return func(_ string, num *float64) bool {
		return num != nil && cmp(*num, t)
	}
}

func rangeMatcher(lo, hi float64) intervalMatcher {
	return func(_ string, num *float64) bool {
		return num != nil && *num >= lo && *num <= hi
	}
}

func equalityMatcher(want string) intervalMatcher {
	return func(str string, _ *float64) bool {
		return str == want
	}
}

// compileIntervalMatcher turns one range/condition string into a reusable
// predicate. Recognized forms, checked in order:
//
//	"<X" "<=X" ">X" ">=X"        comparator prefix
//	"less than X"                v < X
//	"X and above", "above X"     v >= X for time phrases, v > X otherwise
//	"below X", "under X"         v < X
//	"X+"                         v >= X
//	"between X and Y", "X - Y"   X <= v <= Y
//	"X"                          v == X
//	anything else                case-insensitive string equality
//
// Unit suffixes (cr, crore, months) are stripped before numbers are read.
func compileIntervalMatcher(expr string) intervalMatcher {
	s := strings.ToLower(strings.TrimSpace(expr))

	// Comparator prefixes; order matters so "<=" is not read as "<".
	for _, op := range []struct {
		prefix string
		cmp    func(v, t float64) bool
	}{
		{"<=", func(v, t float64) bool { return v <= t }},
		{">=", func(v, t float64) bool { return v >= t }},
		{"<", func(v, t float64) bool { return v < t }},
		{">", func(v, t float64) bool { return v > t }},
	} {
		if strings.HasPrefix(s, op.prefix) {
			if t, ok := firstNumber(stripUnits(strings.TrimPrefix(s, op.prefix))); ok {
				return numericMatcher(op.cmp, t)
			}
		}
	}

	isTimePhrase := strings.Contains(s, "month")

	if strings.Contains(s, "less than") {
		if t, ok := firstNumber(stripUnits(s)); ok {
			return numericMatcher(func(v, t float64) bool { return v < t }, t)
		}
	}

	if strings.Contains(s, "above") {
		if t, ok := firstNumber(stripUnits(s)); ok {
			if isTimePhrase {
				// "6 months and above" is inclusive.
				return numericMatcher(func(v, t float64) bool { return v >= t }, t)
			}
			return numericMatcher(func(v, t float64) bool { return v > t }, t)
		}
	}

	if strings.Contains(s, "below") || strings.Contains(s, "under") {
		if t, ok := firstNumber(stripUnits(s)); ok {
			return numericMatcher(func(v, t float64) bool { return v < t }, t)
		}
	}

	clean := stripUnits(s)

	if strings.HasSuffix(clean, "+") {
		if t, ok := firstNumber(strings.TrimSuffix(clean, "+")); ok {
			return numericMatcher(func(v, t float64) bool { return v >= t }, t)
		}
	}

	if strings.Contains(s, "between") {
		if ns := allNumbers(clean); len(ns) >= 2 {
			return rangeMatcher(ns[0], ns[1])
		}
	}

	// "800 - 999" or "760-799"; a leading minus is a negative number, not a
	// range separator. Splitting on the separator keeps the second bound from
	// being read as a negative number.
	if idx := strings.Index(clean, "-"); idx > 0 {
		lo, okLo := firstNumber(clean[:idx])
		hi, okHi := firstNumber(strings.TrimPrefix(clean[idx:], "-"))
		if okLo && okHi {
			return rangeMatcher(lo, hi)
		}
	}

	if t, err := strconv.ParseFloat(clean, 64); err == nil {
		return numericMatcher(func(v, t float64) bool { return v == t }, t)
	}

	return equalityMatcher(s)
}

// normalizeValue folds a raw metric value into the string and numeric forms
// interval matchers operate on. Strings with embedded numbers ("1200 cr",
// "18 months") yield their first number.
func normalizeValue(v any) (string, *float64) {
	switch t := v.(type) {
	case float64:
		f := t
		return strings.ToLower(strings.TrimSpace(formatValue(v))), &f
	case int:
		f := float64(t)
		return strings.ToLower(strings.TrimSpace(formatValue(v))), &f
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if f, ok := firstNumber(stripUnits(s)); ok {
			return s, &f
		}
		return s, nil
	default:
		return "", nil
	}
}

// formatValue renders a raw value for display and string comparison.
func formatValue(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case string:
		return t
	default:
		return ""
	}
}
