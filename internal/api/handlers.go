package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aryanv175/finance-dashboard-saksham/internal/analysis"
	"github.com/aryanv175/finance-dashboard-saksham/internal/domain"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "finance-dashboard-api",
		"timestamp": time.Now().UTC(),
	})
}

// handleUpload accepts a multipart workbook upload and registers it.
func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, domain.NewValidationError("file", "multipart field 'file' is required", nil))
		return
	}

	name := filepath.Base(fileHeader.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".xlsx" && ext != ".xls" {
		s.respondError(c, domain.NewValidationError("file",
			"only Excel files (.xlsx, .xls) are supported", name))
		return
	}

	if max := s.config.Uploads.MaxSizeMB << 20; fileHeader.Size > max {
		s.respondError(c, domain.NewValidationError("file",
			fmt.Sprintf("file exceeds the %d MB upload limit", s.config.Uploads.MaxSizeMB), fileHeader.Size))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		s.respondError(c, err)
		return
	}

	rec, err := s.analyses.Upload(c.Request.Context(), content, name)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename": rec.Filename,
		"file_id":  rec.FileID,
		"message":  "File uploaded successfully",
		"sheets":   rec.Sheets,
	})
}

// handleListFiles returns every registered workbook, newest first.
func (s *Server) handleListFiles(c *gin.Context) {
	files, err := s.analyses.Files(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	if files == nil {
		files = []*domain.FileRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// handleFileCriteria returns the criteria parsed from one sheet.
func (s *Server) handleFileCriteria(c *gin.Context) {
	criteria, err := s.analyses.FileCriteria(c.Request.Context(), c.Param("id"), c.Param("sheet"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"criteria": criteria})
}

// handleFileCases returns the cases parsed from one sheet.
func (s *Server) handleFileCases(c *gin.Context) {
	cases, err := s.analyses.FileCases(c.Request.Context(), c.Param("id"), c.Param("sheet"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if cases == nil {
		cases = []domain.CaseRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"cases": cases})
}

// handleAnalyze runs a scoring analysis over the named sheets.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req analysis.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, domain.NewValidationError("body", "request body is not valid JSON", nil))
		return
	}
	if req.FileID == "" {
		s.respondError(c, domain.NewValidationError("file_id", "file_id is required", nil))
		return
	}

	a, err := s.analyses.Analyze(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file_id":     a.FileID,
		"analysis_id": a.AnalysisID,
		"results":     a.Results,
		"summary":     a.Summary,
		"created_at":  a.CreatedAt,
	})
}

// handleGetAnalysis returns the stored analysis summary by id.
func (s *Server) handleGetAnalysis(c *gin.Context) {
	a, err := s.analyses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"file_id":     a.FileID,
		"analysis_id": a.AnalysisID,
		"results":     a.Results,
		"summary":     a.Summary,
		"created_at":  a.CreatedAt,
	})
}

// handleDashboard returns the precomputed dashboard payload.
func (s *Server) handleDashboard(c *gin.Context) {
	data, err := s.analyses.Dashboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// handleComparisonChart compares every case against one criterion.
func (s *Server) handleComparisonChart(c *gin.Context) {
	parameter := c.Query("parameter")
	if parameter == "" {
		s.respondError(c, domain.NewValidationError("parameter", "query parameter 'parameter' is required", nil))
		return
	}

	data, err := s.analyses.Comparison(c.Request.Context(), c.Param("id"), parameter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// handleCorrelationChart returns the numeric-metric correlation matrix.
func (s *Server) handleCorrelationChart(c *gin.Context) {
	matrix, err := s.analyses.Correlation(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matrix)
}

// handleDeleteFile removes a workbook and everything derived from it.
func (s *Server) handleDeleteFile(c *gin.Context) {
	if err := s.analyses.DeleteFile(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

// respondError maps domain errors onto HTTP statuses: malformed input is a
// 400 with field detail, a missing entity is a 404, anything else a 500.
// The message always tells the caller which of the two it was.
func (s *Server) respondError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": vErr.Message,
			"code":  domain.ErrValidation,
			"field": vErr.Field,
		})
		return
	}

	var nfErr *domain.NotFoundError
	if errors.As(err, &nfErr) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": nfErr.Error(),
			"code":  domain.ErrNotFound,
		})
		return
	}

	s.logger.WithError(err).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "internal server error",
		"code":  domain.ErrInternalServer,
	})
}
