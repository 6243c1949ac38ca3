// Package workbook extracts eligibility criteria and case metrics from
// uploaded xlsx workbooks. The cell layout is fixed by the analyst template:
// a criteria block in C2:E12, an interval table in I2:K45, and one case per
// sheet in C4:D13 with the sheet name as the case id.
package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

// headerWords are cell values that mark a template header row, not data.
var headerWords = map[string]bool{
	"metrics": true, "metric": true, "parameter": true,
	"intervals": true, "scoring": true,
}

// Processor reads analyst workbooks and manages their on-disk copies.
type Processor struct {
	logger    *logrus.Logger
	uploadDir string
}

// NewProcessor creates a processor that stores uploads under cfg.Dir.
func NewProcessor(logger *logrus.Logger, cfg domain.UploadConfig) (*Processor, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Processor{logger: logger, uploadDir: cfg.Dir}, nil
}

// SaveWorkbook persists an uploaded workbook and returns its registry record,
// including the sheet list read back from the stored copy.
func (p *Processor) SaveWorkbook(content []byte, filename string) (domain.FileRecord, error) {
	fileID := uuid.New().String()
	path := filepath.Join(p.uploadDir, fmt.Sprintf("%s_%s", fileID, filepath.Base(filename)))

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return domain.FileRecord{}, fmt.Errorf("failed to store workbook: %w", err)
	}

	sheets, err := p.sheetNames(path)
	if err != nil {
		os.Remove(path)
		return domain.FileRecord{}, domain.NewValidationError("file",
			"uploaded file is not a readable xlsx workbook", filename)
	}

	p.logger.WithFields(logrus.Fields{
		"file_id":  fileID,
		"filename": filename,
		"sheets":   len(sheets),
	}).Info("Stored uploaded workbook")

	return domain.FileRecord{
		FileID:   fileID,
		Filename: filename,
		Path:     path,
		Sheets:   sheets,
	}, nil
}

// Remove deletes the stored workbook file.
func (p *Processor) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove workbook: %w", err)
	}
	return nil
}

func (p *Processor) sheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// ReadCriteria extracts the weighted criteria from the named sheet:
// parameter/benchmark/weight rows from C2:E12 merged with the per-metric
// interval table in I2:K45. A numeric benchmark becomes a min_value
// threshold, anything else a preferred value; intervals take precedence when
// the catalog selects the policy.
func (p *Processor) ReadCriteria(path, sheet string) ([]domain.Criterion, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, domain.NewNotFoundError("sheet", sheet)
	}

	criteria := make([]domain.Criterion, 0)
	for row := 2; row <= 12; row++ {
		param := strings.TrimSpace(cell(f, sheet, 3, row))
		if param == "" || headerWords[strings.ToLower(param)] {
			continue
		}

		c := domain.Criterion{Parameter: param}

		if w := strings.TrimSpace(cell(f, sheet, 5, row)); w != "" {
			if weight, err := strconv.ParseFloat(w, 64); err == nil {
				c.Weight = &weight
			}
		}

		if benchmark := strings.TrimSpace(cell(f, sheet, 4, row)); benchmark != "" {
			if v, err := strconv.ParseFloat(benchmark, 64); err == nil {
				c.MinValue = &v
			} else {
				c.PreferredValue = &benchmark
			}
		}

		criteria = append(criteria, c)
	}

	intervals := p.readIntervals(f, sheet)
	for i := range criteria {
		if ivs, ok := intervals[strings.ToLower(criteria[i].Parameter)]; ok {
			criteria[i].ScoringIntervals = ivs
		}
	}

	p.logger.WithFields(logrus.Fields{
		"sheet":    sheet,
		"criteria": len(criteria),
	}).Debug("Read criteria sheet")

	return criteria, nil
}

// readIntervals walks the I2:K45 block. The metric name column carries down:
// rows with a blank metric cell extend the most recent metric's table.
func (p *Processor) readIntervals(f *excelize.File, sheet string) map[string][]domain.ScoringInterval {
	out := make(map[string][]domain.ScoringInterval)
	current := ""

	for row := 2; row <= 45; row++ {
		metric := strings.TrimSpace(cell(f, sheet, 9, row))
		if metric != "" {
			if headerWords[strings.ToLower(metric)] {
				continue
			}
			current = strings.ToLower(metric)
		}
		if current == "" {
			continue
		}

		rangeStr := strings.TrimSpace(cell(f, sheet, 10, row))
		scoreStr := strings.TrimSpace(cell(f, sheet, 11, row))
		if rangeStr == "" || scoreStr == "" {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		out[current] = append(out[current], domain.ScoringInterval{Range: rangeStr, Score: score})
	}

	return out
}

// ReadCases extracts one case from the named sheet: metric name/value pairs
// from C4:D13, the sheet name serving as the case id. Numeric cells become
// float64, everything else a trimmed string. Sheets with no usable rows
// yield no case.
func (p *Processor) ReadCases(path, sheet string) ([]domain.CaseRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, domain.NewNotFoundError("sheet", sheet)
	}

	metrics := domain.NewMetrics()
	for row := 4; row <= 13; row++ {
		name := strings.TrimSpace(cell(f, sheet, 3, row))
		if name == "" {
			continue
		}
		raw := strings.TrimSpace(cell(f, sheet, 4, row))
		if raw == "" {
			continue
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			metrics.Set(name, v)
		} else {
			metrics.Set(name, raw)
		}
	}

	if metrics.Len() == 0 {
		p.logger.WithField("sheet", sheet).Warn("Case sheet contains no metric rows")
		return nil, nil
	}

	return []domain.CaseRecord{{CaseID: sheet, Metrics: metrics}}, nil
}

func cell(f *excelize.File, sheet string, col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	v, err := f.GetCellValue(sheet, name)
	if err != nil {
		return ""
	}
	return v
}
