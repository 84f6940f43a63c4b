package ui

import (
	stderrors "errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"goexplain/app"
	"goexplain/domain/core"
	"goexplain/domain/dataset"
	"goexplain/internal/chart"
	"goexplain/internal/errors"
)

// Server is the stateless JSON API. Unlike the dashboard it has no
// sessions: every dataset is addressed by the ID its upload returned.
type Server struct {
	router  *gin.Engine
	service *app.AnalysisService
	config  APIConfig
}

// APIConfig holds JSON API configuration
type APIConfig struct {
	Port        string
	GinMode     string
	MaxUploadMB int64
}

// NewServer creates a new API server instance
func NewServer(service *app.AnalysisService, config APIConfig) *Server {
	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	}
	if config.MaxUploadMB <= 0 {
		config.MaxUploadMB = 25
	}

	s := &Server{
		router:  gin.Default(),
		service: service,
		config:  config,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.POST("/datasets", s.handleCreateDataset)
		api.GET("/datasets/:id", s.handleGetDataset)
		api.GET("/datasets/:id/insights", s.handleGetInsights)
		api.GET("/datasets/:id/correlation", s.handleGetCorrelation)
		api.GET("/datasets/:id/charts/:kind", s.handleGetChart)
		api.GET("/datasets/:id/report", s.handleGetReport)
	}
}

// Router exposes the configured engine, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the API server
func (s *Server) Start() error {
	addr := ":" + s.config.Port
	log.Printf("Starting GoExplain API on %s", addr)
	return s.router.Run(addr)
}

// handleCreateDataset ingests a multipart upload and registers it
func (s *Server) handleCreateDataset(c *gin.Context) {
	file, header, err := c.Request.FormFile("dataset")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded", "code": errors.CodeInvalidInput})
		return
	}
	defer file.Close()

	maxBytes := s.config.MaxUploadMB * 1024 * 1024
	if header.Size > maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File size (%.1f MB) exceeds the %d MB limit",
				float64(header.Size)/(1024*1024), s.config.MaxUploadMB),
			"code": errors.CodeInvalidInput,
		})
		return
	}

	result, err := s.service.Upload(c.Request.Context(), file, header.Filename)
	if err != nil {
		log.Printf("[API] FAILED - could not ingest %s: %v", header.Filename, err)
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"dataset_id": result.Dataset.ID,
		"filename":   result.Dataset.Filename,
		"shape":      result.Dataset.Shape(),
		"columns":    result.Dataset.ColumnNames(),
		"warnings":   result.Warnings,
	})
}

// handleGetDataset returns the overview of a registered dataset
func (s *Server) handleGetDataset(c *gin.Context) {
	ds, ok := s.resolveDataset(c)
	if !ok {
		return
	}

	overview, err := s.service.BuildOverview(c.Request.Context(), ds)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dataset_id": ds.ID,
		"overview":   overview,
	})
}

// handleGetInsights returns the generated insights for a dataset
func (s *Server) handleGetInsights(c *gin.Context) {
	ds, ok := s.resolveDataset(c)
	if !ok {
		return
	}

	insights := s.service.Insights(ds)
	c.JSON(http.StatusOK, gin.H{
		"dataset_id": ds.ID,
		"insights":   insights,
		"count":      len(insights),
		"warnings":   app.DatasetWarnings(ds),
	})
}

// handleGetCorrelation classifies the correlation of two columns
func (s *Server) handleGetCorrelation(c *gin.Context) {
	ds, ok := s.resolveDataset(c)
	if !ok {
		return
	}

	x, y := c.Query("x"), c.Query("y")
	if x == "" || y == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "x and y query parameters are required", "code": errors.CodeInvalidInput})
		return
	}

	analysis, err := s.service.Correlate(ds, x, y)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// handleGetChart builds one chart payload
func (s *Server) handleGetChart(c *gin.Context) {
	ds, ok := s.resolveDataset(c)
	if !ok {
		return
	}

	kind, err := chart.ParseKind(c.Param("kind"))
	if err != nil {
		s.renderError(c, err)
		return
	}

	bins := 0
	if raw := c.Query("bins"); raw != "" {
		bins, err = strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bins must be an integer", "code": errors.CodeInvalidInput})
			return
		}
	}

	payload, err := s.service.BuildChart(c.Request.Context(), ds, app.ChartRequest{
		Kind: kind,
		X:    c.Query("x"),
		Y:    c.Query("y"),
		Bins: bins,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, payload)
}

// handleGetReport streams the text report as an attachment
func (s *Server) handleGetReport(c *gin.Context) {
	ds, ok := s.resolveDataset(c)
	if !ok {
		return
	}

	result := s.service.BuildReport(ds)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Data(http.StatusOK, result.ContentType, []byte(result.Content))
}

func (s *Server) resolveDataset(c *gin.Context) (*dataset.Dataset, bool) {
	id, err := core.ParseDatasetID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": errors.CodeInvalidInput})
		return nil, false
	}

	ds, err := s.service.DatasetByID(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return nil, false
	}
	return ds, true
}

// renderError maps domain errors onto HTTP statuses and error codes
func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case core.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": errors.CodeNotFound})
	case core.IsInsufficientDataError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": errors.CodeInsufficientData})
	case core.IsParseError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": errors.CodeDatasetParse})
	case core.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": errors.CodeValidationError})
	case stderrors.Is(err, core.ErrNonNumericColumn):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": errors.CodeInvalidInput})
	default:
		log.Printf("[API] Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": errors.CodeInternalError})
	}
}
