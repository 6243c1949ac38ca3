package analysis

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/aryanv175/finance-dashboard-saksham/internal/dashboard"
	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
	"github.com/aryanv175/finance-dashboard-saksham/internal/registry"
	"github.com/aryanv175/finance-dashboard-saksham/internal/scoring"
	"github.com/aryanv175/finance-dashboard-saksham/internal/workbook"
)

// DefaultCriteriaSheet is used when an analyze request leaves the criteria
// sheet blank.
const DefaultCriteriaSheet = "Sheet1"

// AnalyzeRequest names the workbook and sheets a scoring run operates on.
type AnalyzeRequest struct {
	FileID        string   `json:"file_id"`
	CriteriaSheet string   `json:"criteria_sheet"`
	CasesSheets   []string `json:"cases_sheets"`
}

// Service orchestrates scoring runs: workbook extraction, catalog build,
// per-case scoring, dashboard aggregation, and snapshot publication.
type Service struct {
	logger     *logrus.Logger
	processor  *workbook.Processor
	registry   registry.Store
	store      Store
	scoringCfg domain.ScoringConfig
}

// NewService creates an analysis service.
func NewService(
	logger *logrus.Logger,
	processor *workbook.Processor,
	files registry.Store,
	store Store,
	scoringCfg domain.ScoringConfig,
) *Service {
	return &Service{
		logger:     logger,
		processor:  processor,
		registry:   files,
		store:      store,
		scoringCfg: scoringCfg,
	}
}

// Upload stores a workbook and registers it.
func (s *Service) Upload(ctx context.Context, content []byte, filename string) (*domain.FileRecord, error) {
	rec, err := s.processor.SaveWorkbook(content, filename)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Save(ctx, &rec); err != nil {
		s.processor.Remove(rec.Path)
		return nil, err
	}
	return &rec, nil
}

// Files lists every registered workbook, newest first.
func (s *Service) Files(ctx context.Context) ([]*domain.FileRecord, error) {
	return s.registry.List(ctx)
}

// FileCriteria reads the criteria from one sheet of a registered workbook.
func (s *Service) FileCriteria(ctx context.Context, fileID, sheet string) ([]domain.Criterion, error) {
	rec, err := s.registry.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return s.processor.ReadCriteria(rec.Path, sheet)
}

// FileCases reads the cases from one sheet of a registered workbook.
func (s *Service) FileCases(ctx context.Context, fileID, sheet string) ([]domain.CaseRecord, error) {
	rec, err := s.registry.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return s.processor.ReadCases(rec.Path, sheet)
}

// Analyze runs a complete scoring analysis and publishes the snapshot.
// Criteria validation failures abort the whole run before any case is
// scored; per-case resolution misses are isolated and never abort the batch.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*domain.Analysis, error) {
	started := time.Now()

	rec, err := s.registry.Get(ctx, req.FileID)
	if err != nil {
		return nil, err
	}

	criteriaSheet := req.CriteriaSheet
	if criteriaSheet == "" {
		criteriaSheet = DefaultCriteriaSheet
	}

	criteria, err := s.processor.ReadCriteria(rec.Path, criteriaSheet)
	if err != nil {
		return nil, err
	}
	if len(criteria) == 0 {
		return nil, domain.NewValidationError("criteria_sheet",
			"no criteria found in the specified sheet", criteriaSheet)
	}

	catalog, err := scoring.NewCatalog(criteria)
	if err != nil {
		return nil, err
	}

	cases := make([]domain.CaseRecord, 0, len(req.CasesSheets))
	for _, sheet := range req.CasesSheets {
		sheetCases, err := s.processor.ReadCases(rec.Path, sheet)
		if err != nil {
			return nil, err
		}
		cases = append(cases, sheetCases...)
	}
	if len(cases) == 0 {
		return nil, domain.NewValidationError("cases_sheets",
			"no cases found in the specified sheets", req.CasesSheets)
	}

	scorer := scoring.NewScorer(s.logger, s.scoringCfg)
	results := scorer.ScoreAll(catalog, cases)

	a := &domain.Analysis{
		AnalysisID: uuid.New().String(),
		FileID:     req.FileID,
		Criteria:   criteria,
		Cases:      cases,
		Results:    results,
		Summary:    summarize(results),
		Dashboard:  dashboard.Aggregate(catalog, results),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.Put(ctx, a); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"analysis_id": a.AnalysisID,
		"file_id":     a.FileID,
		"cases":       len(cases),
		"criteria":    len(criteria),
		"elapsed":     time.Since(started),
	}).Info("Completed scoring analysis")

	return a, nil
}

// Get retrieves a stored analysis snapshot.
func (s *Service) Get(ctx context.Context, analysisID string) (*domain.Analysis, error) {
	return s.store.Get(ctx, analysisID)
}

// Dashboard returns the precomputed dashboard payload for an analysis.
func (s *Service) Dashboard(ctx context.Context, analysisID string) (domain.DashboardData, error) {
	a, err := s.store.Get(ctx, analysisID)
	if err != nil {
		return domain.DashboardData{}, err
	}
	return a.Dashboard, nil
}

// Correlation computes the numeric-metric correlation matrix for an analysis.
func (s *Service) Correlation(ctx context.Context, analysisID string) (domain.CorrelationMatrix, error) {
	a, err := s.store.Get(ctx, analysisID)
	if err != nil {
		return domain.CorrelationMatrix{}, err
	}
	return dashboard.CorrelationMatrix(a.Cases), nil
}

// Comparison returns the per-case standing against one criterion. The
// catalog is rebuilt from the stored criteria snapshot; the snapshot was
// validated at analyze time, so the rebuild cannot fail.
func (s *Service) Comparison(ctx context.Context, analysisID, parameter string) (domain.ComparisonData, error) {
	a, err := s.store.Get(ctx, analysisID)
	if err != nil {
		return domain.ComparisonData{}, err
	}
	catalog, err := scoring.NewCatalog(a.Criteria)
	if err != nil {
		return domain.ComparisonData{}, err
	}
	return dashboard.Comparison(catalog, a.Results, parameter)
}

// DeleteFile removes a workbook, its registry record, and every analysis
// derived from it.
func (s *Service) DeleteFile(ctx context.Context, fileID string) error {
	rec, err := s.registry.Get(ctx, fileID)
	if err != nil {
		return err
	}
	if err := s.processor.Remove(rec.Path); err != nil {
		return err
	}
	if err := s.registry.Delete(ctx, fileID); err != nil {
		return err
	}

	removed, err := s.store.DeleteByFile(ctx, fileID)
	if err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"file_id":  fileID,
		"analyses": removed,
	}).Info("Deleted workbook and derived analyses")
	return nil
}

func summarize(results []domain.ScoreResult) domain.AnalysisSummary {
	summary := domain.AnalysisSummary{TotalCases: len(results)}
	if len(results) == 0 {
		return summary
	}

	var sum float64
	summary.HighestScore = results[0].Percentage
	summary.LowestScore = results[0].Percentage

	for _, r := range results {
		sum += r.Percentage
		if r.Percentage > summary.HighestScore {
			summary.HighestScore = r.Percentage
		}
		if r.Percentage < summary.LowestScore {
			summary.LowestScore = r.Percentage
		}
		switch r.EligibilityStatus {
		case domain.StatusEligible:
			summary.EligibleCases++
		case domain.StatusReviewRequired:
			summary.ReviewCases++
		case domain.StatusNotEligible:
			summary.RejectedCases++
		}
	}

	summary.AverageScore = round2(sum / float64(len(results)))
	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
