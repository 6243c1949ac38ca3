package scoring

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

// Scorer aggregates weighted per-metric contributions into one ScoreResult
// per case. The criteria define the scoring surface: every catalog criterion
// is resolved and scored, whether or not the case carries a matching metric.
type Scorer struct {
	logger            *logrus.Logger
	calc              *Calculator
	eligibleThreshold float64
	reviewThreshold   float64
}

// NewScorer creates a scorer with the configured eligibility cut points.
func NewScorer(logger *logrus.Logger, cfg domain.ScoringConfig) *Scorer {
	return &Scorer{
		logger:            logger,
		calc:              NewCalculator(cfg.PartialCredit),
		eligibleThreshold: cfg.EligibleThreshold,
		reviewThreshold:   cfg.ReviewThreshold,
	}
}

// ScoreCase scores one case against every criterion in the catalog. A metric
// the resolver cannot find scores 0 but still consumes the criterion's weight
// toward the attainable maximum: missing data is penalized, not excluded.
func (s *Scorer) ScoreCase(catalog *Catalog, rec domain.CaseRecord) domain.ScoreResult {
	criteria := catalog.Criteria()
	metricScores := make([]domain.MetricScore, 0, len(criteria))
	individual := make(map[string]float64, len(criteria))
	var total float64

	for _, cc := range criteria {
		value, found := Resolve(rec.Metrics, cc)

		score := s.calc.Score(cc, value, found)
		contribution := s.calc.WeightedContribution(cc, score)
		total += contribution

		actual := value
		if !found {
			actual = domain.NotFoundValue
		}

		metricScores = append(metricScores, domain.MetricScore{
			MetricName:           cc.Criterion.Parameter,
			ActualValue:          actual,
			Score:                round2(score),
			Weight:               cc.Weight,
			WeightedContribution: round2(contribution),
		})
		individual[cc.Criterion.Parameter] = round2(score)
	}

	maxScore := catalog.MaxPossibleScore()
	percentage := 0.0
	if maxScore > 0 {
		percentage = clampPercent(total / maxScore * 100)
	}
	percentage = round2(percentage)

	result := domain.ScoreResult{
		CaseID:            rec.CaseID,
		TotalScore:        round2(total),
		MaxPossibleScore:  maxScore,
		Percentage:        percentage,
		IndividualScores:  individual,
		MetricScores:      metricScores,
		EligibilityStatus: s.status(percentage),
	}

	s.logger.WithFields(logrus.Fields{
		"case_id":    rec.CaseID,
		"percentage": percentage,
		"status":     result.EligibilityStatus,
	}).Debug("Scored case")

	return result
}

// ScoreAll scores every case in input order. Per-case issues never abort the
// batch; scoring is total over well-formed input.
func (s *Scorer) ScoreAll(catalog *Catalog, cases []domain.CaseRecord) []domain.ScoreResult {
	results := make([]domain.ScoreResult, 0, len(cases))
	for _, rec := range cases {
		results = append(results, s.ScoreCase(catalog, rec))
	}
	return results
}

// status maps a percentage to its eligibility tier. Monotone by construction:
// a lower percentage can never earn a better tier.
func (s *Scorer) status(percentage float64) domain.EligibilityStatus {
	switch {
	case percentage >= s.eligibleThreshold:
		return domain.StatusEligible
	case percentage >= s.reviewThreshold:
		return domain.StatusReviewRequired
	default:
		return domain.StatusNotEligible
	}
}

func clampPercent(p float64) float64 {
	return math.Max(0, math.Min(100, p))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
