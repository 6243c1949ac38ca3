// Package dashboard derives the cross-case aggregate views served to the
// visualization layer. Every function here is a pure transformation of an
// analysis's immutable results; nothing re-scans raw spreadsheet data.
package dashboard

import (
	"math"
	"sort"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
	"github.com/aryanv175/finance-dashboard-saksham/internal/scoring"
)

// distributionBins are the fixed percentage buckets of the score histogram.
// A percentage lands in the first bin whose upper bound it does not exceed.
var distributionBins = []struct {
	label string
	upper float64
}{
	{"0-20", 20},
	{"21-40", 40},
	{"41-60", 60},
	{"61-80", 80},
	{"81-100", 100},
}

const topPerformerLimit = 5

// Aggregate builds the complete dashboard payload from one analysis's scored
// results. It is computed once per analysis and stored with the snapshot.
func Aggregate(catalog *scoring.Catalog, results []domain.ScoreResult) domain.DashboardData {
	data := domain.DashboardData{
		TotalCases:           len(results),
		ScoreDistribution:    domain.ChartData{Type: "bar", Labels: []string{}, Datasets: []domain.ChartDataset{}},
		EligibilityBreakdown: domain.ChartData{Type: "pie", Labels: []string{}, Datasets: []domain.ChartDataset{}},
		ParameterAnalysis:    domain.ChartData{Type: "horizontalBar", Labels: []string{}, Datasets: []domain.ChartDataset{}},
		ScoreTrends:          domain.ChartData{Type: "line", Labels: []string{}, Datasets: []domain.ChartDataset{}},
		TopPerformers:        []domain.ScoreResult{},
	}
	if len(results) == 0 {
		return data
	}

	percentages := make([]float64, len(results))
	for i, r := range results {
		percentages[i] = r.Percentage
		if r.EligibilityStatus == domain.StatusEligible {
			data.EligibleCases++
		}
	}

	data.ScoreStats = scoreStats(percentages)
	data.AverageScore = data.ScoreStats.Mean
	data.ScoreDistribution = scoreDistribution(percentages)
	data.EligibilityBreakdown = eligibilityBreakdown(results)
	data.ParameterAnalysis = parameterAnalysis(catalog, results)
	data.ScoreTrends = scoreTrends(results)
	data.TopPerformers = topPerformers(results)

	return data
}

// scoreDistribution buckets percentages into the fixed bins; the counts
// always sum to the number of results.
func scoreDistribution(percentages []float64) domain.ChartData {
	counts := make([]float64, len(distributionBins))
	labels := make([]string, len(distributionBins))
	for i, bin := range distributionBins {
		labels[i] = bin.label
	}

	for _, p := range percentages {
		for i, bin := range distributionBins {
			if p <= bin.upper || i == len(distributionBins)-1 {
				counts[i]++
				break
			}
		}
	}

	return domain.ChartData{
		Type:     "bar",
		Labels:   labels,
		Datasets: []domain.ChartDataset{{Label: "Number of Cases", Data: counts}},
	}
}

// eligibilityBreakdown counts results per status tier, tiers in fixed order.
func eligibilityBreakdown(results []domain.ScoreResult) domain.ChartData {
	order := []domain.EligibilityStatus{
		domain.StatusEligible,
		domain.StatusReviewRequired,
		domain.StatusNotEligible,
	}
	counts := make(map[domain.EligibilityStatus]float64, len(order))
	for _, r := range results {
		counts[r.EligibilityStatus]++
	}

	labels := make([]string, 0, len(order))
	values := make([]float64, 0, len(order))
	for _, status := range order {
		labels = append(labels, string(status))
		values = append(values, counts[status])
	}

	return domain.ChartData{
		Type:     "pie",
		Labels:   labels,
		Datasets: []domain.ChartDataset{{Data: values}},
	}
}

// parameterAnalysis averages each criterion's 0-10 score across all cases,
// sorted by average descending. Unresolved metrics already carry a 0 in the
// results, so missing data drags the average down rather than vanishing.
func parameterAnalysis(catalog *scoring.Catalog, results []domain.ScoreResult) domain.ChartData {
	type paramAvg struct {
		name string
		avg  float64
	}

	averages := make([]paramAvg, 0, len(catalog.Criteria()))
	for _, cc := range catalog.Criteria() {
		var sum float64
		for _, r := range results {
			sum += r.IndividualScores[cc.Criterion.Parameter]
		}
		averages = append(averages, paramAvg{
			name: cc.Criterion.Parameter,
			avg:  round2(sum / float64(len(results))),
		})
	}

	sort.SliceStable(averages, func(i, j int) bool {
		return averages[i].avg > averages[j].avg
	})

	labels := make([]string, len(averages))
	values := make([]float64, len(averages))
	for i, pa := range averages {
		labels[i] = pa.name
		values[i] = pa.avg
	}

	return domain.ChartData{
		Type:     "horizontalBar",
		Labels:   labels,
		Datasets: []domain.ChartDataset{{Label: "Average Score", Data: values}},
	}
}

// scoreTrends is the percentage sequence in case-input order; the case index
// is the x-axis, not wall-clock time.
func scoreTrends(results []domain.ScoreResult) domain.ChartData {
	labels := make([]string, len(results))
	values := make([]float64, len(results))
	for i, r := range results {
		labels[i] = r.CaseID
		values[i] = r.Percentage
	}
	return domain.ChartData{
		Type:     "line",
		Labels:   labels,
		Datasets: []domain.ChartDataset{{Label: "Score Percentage", Data: values}},
	}
}

// topPerformers sorts by percentage descending, ties broken by original case
// order, truncated to five.
func topPerformers(results []domain.ScoreResult) []domain.ScoreResult {
	ranked := make([]domain.ScoreResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})
	if len(ranked) > topPerformerLimit {
		ranked = ranked[:topPerformerLimit]
	}
	return ranked
}

func scoreStats(percentages []float64) domain.ScoreStats {
	sorted := make([]float64, len(percentages))
	copy(sorted, percentages)
	sort.Float64s(sorted)

	var sum float64
	for _, p := range percentages {
		sum += p
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return domain.ScoreStats{
		Highest: sorted[n-1],
		Lowest:  sorted[0],
		Mean:    round2(sum / float64(n)),
		Median:  round2(median),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
