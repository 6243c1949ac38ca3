package scoring

import (
	"strings"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

// Resolve finds the raw value matching a criterion parameter inside a case's
// metrics. Precedence, first success wins:
//
//  1. exact key match
//  2. case-insensitive exact match
//  3. substring containment in either direction
//
// Fallback passes scan metrics in their sheet insertion order, so the first
// occurrence wins deterministically. A miss is not an error: the caller
// records it as Not Found and scores zero.
func Resolve(metrics *domain.Metrics, cc *CompiledCriterion) (any, bool) {
	if metrics == nil {
		return nil, false
	}

	if v, ok := metrics.Get(cc.Criterion.Parameter); ok {
		return v, true
	}

	for pair := metrics.Oldest(); pair != nil; pair = pair.Next() {
		if foldKey(pair.Key) == cc.Normalized {
			return pair.Value, true
		}
	}

	for pair := metrics.Oldest(); pair != nil; pair = pair.Next() {
		key := foldKey(pair.Key)
		if key == "" {
			continue
		}
		if strings.Contains(cc.Normalized, key) || strings.Contains(key, cc.Normalized) {
			return pair.Value, true
		}
	}

	return nil, false
}

func foldKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
