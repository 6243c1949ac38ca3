package dashboard

import (
	"math"
	"strings"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

// CorrelationMatrix computes the pairwise Pearson coefficient between every
// pair of numeric metrics observed across the raw case records. Cases where
// either metric is absent or non-numeric are ignored for that pair; a pair
// with fewer than two usable observations has no defined correlation and is
// reported as null, not zero. Metric names are folded case-insensitively so
// loosely-named sheets still line up; the first-seen spelling is the label.
func CorrelationMatrix(cases []domain.CaseRecord) domain.CorrelationMatrix {
	labels := make([]string, 0)
	index := make(map[string]int)
	observations := make([]map[int]float64, 0)

	for caseIdx, rec := range cases {
		if rec.Metrics == nil {
			continue
		}
		for pair := rec.Metrics.Oldest(); pair != nil; pair = pair.Next() {
			v, ok := numericRaw(pair.Value)
			if !ok {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(pair.Key))
			i, seen := index[key]
			if !seen {
				i = len(labels)
				index[key] = i
				labels = append(labels, strings.TrimSpace(pair.Key))
				observations = append(observations, make(map[int]float64))
			}
			// First occurrence wins within a case.
			if _, dup := observations[i][caseIdx]; !dup {
				observations[i][caseIdx] = v
			}
		}
	}

	data := make([][]*float64, len(labels))
	for i := range labels {
		data[i] = make([]*float64, len(labels))
		for j := range labels {
			data[i][j] = pearson(observations[i], observations[j])
		}
	}

	return domain.CorrelationMatrix{Labels: labels, Data: data}
}

// pearson computes the correlation over the case indices both series share.
// Returns nil for fewer than two shared observations or zero variance.
func pearson(a, b map[int]float64) *float64 {
	var xs, ys []float64
	for idx, x := range a {
		if y, ok := b[idx]; ok {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	n := float64(len(xs))
	if n < 2 {
		return nil
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return nil
	}

	r := cov / math.Sqrt(varX*varY)
	r = math.Round(r*10000) / 10000
	return &r
}

// numericRaw accepts only genuinely numeric raw values; strings with embedded
// numbers stay out of the correlation surface.
func numericRaw(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}
