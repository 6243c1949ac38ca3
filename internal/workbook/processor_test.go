package workbook

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	p, err := NewProcessor(testLogger(), domain.UploadConfig{Dir: t.TempDir(), MaxSizeMB: 16})
	require.NoError(t, err)
	return p
}

// buildWorkbook writes a template-shaped workbook to a temp path: a criteria
// sheet with the C2:E12 block and I2:K45 interval table, plus two case
// sheets carrying metrics in C4:D13.
func buildWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	// Criteria block on the default sheet.
	require.NoError(t, f.SetCellValue("Sheet1", "C2", "Parameter"))
	require.NoError(t, f.SetCellValue("Sheet1", "C3", "Revenue"))
	require.NoError(t, f.SetCellValue("Sheet1", "D3", 100000))
	require.NoError(t, f.SetCellValue("Sheet1", "E3", 30))
	require.NoError(t, f.SetCellValue("Sheet1", "C4", "Credit Score"))
	require.NoError(t, f.SetCellValue("Sheet1", "E4", 20))
	require.NoError(t, f.SetCellValue("Sheet1", "C5", "Audited Financials"))
	require.NoError(t, f.SetCellValue("Sheet1", "D5", "Yes"))
	require.NoError(t, f.SetCellValue("Sheet1", "E5", 10))

	// Interval table; the metric name carries down over blank rows.
	require.NoError(t, f.SetCellValue("Sheet1", "I2", "Metric"))
	require.NoError(t, f.SetCellValue("Sheet1", "I3", "Credit Score"))
	require.NoError(t, f.SetCellValue("Sheet1", "J3", "800+"))
	require.NoError(t, f.SetCellValue("Sheet1", "K3", 10))
	require.NoError(t, f.SetCellValue("Sheet1", "J4", "700-799"))
	require.NoError(t, f.SetCellValue("Sheet1", "K4", 7))
	require.NoError(t, f.SetCellValue("Sheet1", "J5", "<700"))
	require.NoError(t, f.SetCellValue("Sheet1", "K5", 3))

	// Case sheets, one case each.
	_, err := f.NewSheet("CASE-001")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("CASE-001", "C4", "Revenue"))
	require.NoError(t, f.SetCellValue("CASE-001", "D4", 150000))
	require.NoError(t, f.SetCellValue("CASE-001", "C5", "Credit Score"))
	require.NoError(t, f.SetCellValue("CASE-001", "D5", 820))
	require.NoError(t, f.SetCellValue("CASE-001", "C6", "Audited Financials"))
	require.NoError(t, f.SetCellValue("CASE-001", "D6", "Yes"))

	_, err = f.NewSheet("EMPTY-CASE")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestSaveWorkbook(t *testing.T) {
	p := newTestProcessor(t)
	content, err := os.ReadFile(buildWorkbook(t))
	require.NoError(t, err)

	t.Run("stores the file and lists sheets", func(t *testing.T) {
		rec, err := p.SaveWorkbook(content, "template.xlsx")
		require.NoError(t, err)

		assert.NotEmpty(t, rec.FileID)
		assert.Equal(t, "template.xlsx", rec.Filename)
		assert.FileExists(t, rec.Path)
		assert.Equal(t, []string{"Sheet1", "CASE-001", "EMPTY-CASE"}, rec.Sheets)
	})

	t.Run("rejects unreadable content and cleans up", func(t *testing.T) {
		_, err := p.SaveWorkbook([]byte("not a workbook"), "bogus.xlsx")
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "file", vErr.Field)

		entries, err := os.ReadDir(p.uploadDir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotContains(t, e.Name(), "bogus")
		}
	})
}

func TestReadCriteria(t *testing.T) {
	p := newTestProcessor(t)
	path := buildWorkbook(t)

	criteria, err := p.ReadCriteria(path, "Sheet1")
	require.NoError(t, err)
	require.Len(t, criteria, 3)

	revenue := criteria[0]
	assert.Equal(t, "Revenue", revenue.Parameter)
	require.NotNil(t, revenue.Weight)
	assert.Equal(t, 30.0, *revenue.Weight)
	require.NotNil(t, revenue.MinValue)
	assert.Equal(t, 100000.0, *revenue.MinValue)
	assert.Nil(t, revenue.PreferredValue)

	credit := criteria[1]
	assert.Equal(t, "Credit Score", credit.Parameter)
	require.Len(t, credit.ScoringIntervals, 3)
	assert.Equal(t, "800+", credit.ScoringIntervals[0].Range)
	assert.Equal(t, 10.0, credit.ScoringIntervals[0].Score)
	assert.Equal(t, "<700", credit.ScoringIntervals[2].Range)

	audited := criteria[2]
	assert.Equal(t, "Audited Financials", audited.Parameter)
	require.NotNil(t, audited.PreferredValue)
	assert.Equal(t, "Yes", *audited.PreferredValue)
	assert.Nil(t, audited.MinValue)
}

func TestReadCriteriaUnknownSheet(t *testing.T) {
	p := newTestProcessor(t)
	path := buildWorkbook(t)

	_, err := p.ReadCriteria(path, "Missing")
	var nfErr *domain.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "sheet", nfErr.Kind)
}

func TestReadCases(t *testing.T) {
	p := newTestProcessor(t)
	path := buildWorkbook(t)

	t.Run("sheet name becomes the case id", func(t *testing.T) {
		cases, err := p.ReadCases(path, "CASE-001")
		require.NoError(t, err)
		require.Len(t, cases, 1)

		rec := cases[0]
		assert.Equal(t, "CASE-001", rec.CaseID)
		assert.Equal(t, 3, rec.Metrics.Len())

		v, ok := rec.Metrics.Get("Revenue")
		require.True(t, ok)
		assert.Equal(t, 150000.0, v)

		v, ok = rec.Metrics.Get("Audited Financials")
		require.True(t, ok)
		assert.Equal(t, "Yes", v)
	})

	t.Run("metrics keep sheet order", func(t *testing.T) {
		cases, err := p.ReadCases(path, "CASE-001")
		require.NoError(t, err)

		var names []string
		for pair := cases[0].Metrics.Oldest(); pair != nil; pair = pair.Next() {
			names = append(names, pair.Key)
		}
		assert.Equal(t, []string{"Revenue", "Credit Score", "Audited Financials"}, names)
	})

	t.Run("empty sheet yields no case", func(t *testing.T) {
		cases, err := p.ReadCases(path, "EMPTY-CASE")
		require.NoError(t, err)
		assert.Empty(t, cases)
	})

	t.Run("unknown sheet", func(t *testing.T) {
		_, err := p.ReadCases(path, "Missing")
		var nfErr *domain.NotFoundError
		require.ErrorAs(t, err, &nfErr)
	})
}

func TestRemove(t *testing.T) {
	p := newTestProcessor(t)
	content, err := os.ReadFile(buildWorkbook(t))
	require.NoError(t, err)

	rec, err := p.SaveWorkbook(content, "template.xlsx")
	require.NoError(t, err)

	require.NoError(t, p.Remove(rec.Path))
	assert.NoFileExists(t, rec.Path)

	// Removing twice is not an error.
	assert.NoError(t, p.Remove(rec.Path))
}
