package dashboard

import (
	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
	"github.com/aryanv175/finance-dashboard-saksham/internal/scoring"
)

// Comparison returns, for one named criterion, the ideal display value
// alongside every case's resolved actual value and 0-10 score, in case order.
// An unknown parameter is a not-found condition, same class as a missing
// analysis.
func Comparison(catalog *scoring.Catalog, results []domain.ScoreResult, parameter string) (domain.ComparisonData, error) {
	cc, ok := catalog.Lookup(parameter)
	if !ok {
		return domain.ComparisonData{}, domain.NewNotFoundError("parameter", parameter)
	}

	entries := make([]domain.ComparisonEntry, 0, len(results))
	for _, r := range results {
		for _, ms := range r.MetricScores {
			if ms.MetricName == cc.Criterion.Parameter {
				entries = append(entries, domain.ComparisonEntry{
					CaseID:      r.CaseID,
					ActualValue: ms.ActualValue,
					Score:       ms.Score,
				})
				break
			}
		}
	}

	return domain.ComparisonData{
		Parameter:  cc.Criterion.Parameter,
		IdealValue: scoring.IdealValue(cc),
		Cases:      entries,
	}, nil
}
