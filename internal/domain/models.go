package domain

import (
	"encoding/json"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// EligibilityStatus is the categorical outcome derived from a case's
// total percentage.
type EligibilityStatus string

const (
	StatusEligible       EligibilityStatus = "Eligible"
	StatusReviewRequired EligibilityStatus = "Review Required"
	StatusNotEligible    EligibilityStatus = "Not Eligible"
)

// NotFoundValue is the display marker recorded when a criterion's metric
// could not be resolved in a case.
const NotFoundValue = "Not Found"

// ScoringInterval is one row of a criterion's interval table: a range or
// condition string and the 0-10 score awarded when the value matches it.
type ScoringInterval struct {
	Range string  `json:"range"`
	Score float64 `json:"score"`
}

// UnmarshalJSON accepts "range", "condition", or "interval" as the range key.
// Spreadsheet exports disagree on the name; the engine does not.
func (si *ScoringInterval) UnmarshalJSON(data []byte) error {
	var raw struct {
		Range     *string `json:"range"`
		Condition *string `json:"condition"`
		Interval  *string `json:"interval"`
		Score     float64 `json:"score"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Range != nil:
		si.Range = *raw.Range
	case raw.Condition != nil:
		si.Range = *raw.Condition
	case raw.Interval != nil:
		si.Range = *raw.Interval
	}
	si.Score = raw.Score
	return nil
}

// Criterion is a weighted evaluation rule over one named metric. Exactly one
// scoring policy is selected from the optional fields at catalog build time:
// interval table first, then min/max thresholds, then preferred value.
type Criterion struct {
	Parameter        string            `json:"parameter"`
	Weight           *float64          `json:"weight,omitempty"`
	ScoringIntervals []ScoringInterval `json:"scoring_intervals,omitempty"`
	MinValue         *float64          `json:"min_value,omitempty"`
	MaxValue         *float64          `json:"max_value,omitempty"`
	PreferredValue   *string           `json:"preferred_value,omitempty"`
}

// EffectiveWeight returns the declared weight, defaulting to 1 when absent.
func (c *Criterion) EffectiveWeight() float64 {
	if c.Weight == nil {
		return 1
	}
	return *c.Weight
}

// Metrics is an insertion-ordered mapping of raw metric name to raw value
// (float64 or string). Order matters: the resolver's substring fallback takes
// the first hit in sheet order, so iteration must be deterministic.
type Metrics = orderedmap.OrderedMap[string, any]

// NewMetrics creates an empty insertion-ordered metric map.
func NewMetrics() *Metrics {
	return orderedmap.New[string, any]()
}

// CaseRecord is one applicant's record of raw metric values, created once per
// uploaded case sheet and immutable thereafter.
type CaseRecord struct {
	CaseID  string   `json:"case_id"`
	Metrics *Metrics `json:"metrics"`
}

// MetricScore is the scored outcome of one criterion against one case.
type MetricScore struct {
	MetricName           string  `json:"metric_name"`
	ActualValue          any     `json:"actual_value"`
	Score                float64 `json:"score"`
	Weight               float64 `json:"weight"`
	WeightedContribution float64 `json:"weighted_contribution"`
}

// ScoreResult is the complete scoring outcome for one case.
type ScoreResult struct {
	CaseID            string             `json:"case_id"`
	TotalScore        float64            `json:"total_score"`
	MaxPossibleScore  float64            `json:"max_possible_score"`
	Percentage        float64            `json:"percentage"`
	IndividualScores  map[string]float64 `json:"individual_scores"`
	MetricScores      []MetricScore      `json:"metric_scores"`
	EligibilityStatus EligibilityStatus  `json:"eligibility_status"`
}

// ChartDataset is one series in a chart payload.
type ChartDataset struct {
	Label string    `json:"label,omitempty"`
	Data  []float64 `json:"data"`
}

// ChartData is the labels/datasets payload shape the dashboard renders.
type ChartData struct {
	Type     string         `json:"type"`
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// ScoreStats summarizes the percentage population of an analysis.
type ScoreStats struct {
	Highest float64 `json:"highest"`
	Lowest  float64 `json:"lowest"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
}

// DashboardData carries every aggregate view derived from one analysis.
// It is computed once per analysis and never mutated afterwards.
type DashboardData struct {
	TotalCases           int           `json:"total_cases"`
	EligibleCases        int           `json:"eligible_cases"`
	AverageScore         float64       `json:"average_score"`
	ScoreDistribution    ChartData     `json:"score_distribution"`
	EligibilityBreakdown ChartData     `json:"eligibility_breakdown"`
	ParameterAnalysis    ChartData     `json:"parameter_analysis"`
	ScoreTrends          ChartData     `json:"score_trends"`
	TopPerformers        []ScoreResult `json:"top_performers"`
	ScoreStats           ScoreStats    `json:"score_stats"`
}

// CorrelationMatrix holds pairwise Pearson coefficients between numeric
// metrics. An entry is nil when fewer than two usable observations exist.
type CorrelationMatrix struct {
	Labels []string     `json:"labels"`
	Data   [][]*float64 `json:"data"`
}

// ComparisonEntry is one case's standing against a single criterion.
type ComparisonEntry struct {
	CaseID      string  `json:"case_id"`
	ActualValue any     `json:"actual_value"`
	Score       float64 `json:"score"`
}

// ComparisonData compares every case against one criterion's ideal value.
type ComparisonData struct {
	Parameter  string            `json:"parameter"`
	IdealValue string            `json:"ideal_value"`
	Cases      []ComparisonEntry `json:"cases"`
}

// AnalysisSummary aggregates headline statistics for a scoring run.
type AnalysisSummary struct {
	TotalCases    int     `json:"total_cases"`
	AverageScore  float64 `json:"average_score"`
	HighestScore  float64 `json:"highest_score"`
	LowestScore   float64 `json:"lowest_score"`
	EligibleCases int     `json:"eligible_cases"`
	ReviewCases   int     `json:"review_cases"`
	RejectedCases int     `json:"rejected_cases"`
}

// Analysis is the immutable snapshot of one scoring run: the criteria it ran
// with, the input cases, the per-case results, and the precomputed dashboard.
// It is written exactly once at creation; every later query is a pure read.
type Analysis struct {
	AnalysisID string          `json:"analysis_id"`
	FileID     string          `json:"file_id"`
	Criteria   []Criterion     `json:"criteria"`
	Cases      []CaseRecord    `json:"cases"`
	Results    []ScoreResult   `json:"results"`
	Summary    AnalysisSummary `json:"summary"`
	Dashboard  DashboardData   `json:"dashboard"`
	CreatedAt  time.Time       `json:"created_at"`
}

// FileRecord describes one uploaded workbook tracked by the registry.
type FileRecord struct {
	FileID     string    `json:"file_id"`
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	Sheets     []string  `json:"sheets"`
	UploadedAt time.Time `json:"uploaded_at"`
}
