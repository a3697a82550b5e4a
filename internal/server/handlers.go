package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/logger"
	"github.com/spigell/assessment-recommender/internal/query"
	"github.com/spigell/assessment-recommender/internal/recommend"
)

// QueryRequest is the body of POST /recommend.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// RecommendResponse is returned by both recommendation endpoints.
type RecommendResponse struct {
	Recommendations []recommend.Recommendation `json:"recommendations"`
	RunID           string                     `json:"run_id"`
	Filters         query.Filters              `json:"filters"`
	Issues          []query.Issue              `json:"issues,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	RunID string `json:"run_id,omitempty"`
}

func (s *Server) info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "Assessment Recommender API",
		"description": "API for recommending assessments based on natural language queries",
		"endpoints": gin.H{
			"/recommend":         "POST endpoint for getting assessment recommendations",
			"/recommend/filters": "POST endpoint for ranking with an explicit filter object",
			"/health":            "GET liveness probe",
		},
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"catalog_size": s.engine.Catalog().Len(),
	})
}

func (s *Server) recommendQuery(c *gin.Context) {
	runID := s.newRunID()

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error(), RunID: runID})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request: query must not be blank", RunID: runID})
		return
	}

	log := logger.WithRequest(s.logger, runID, req.Query)
	log.Info("received query")

	if s.extractor == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "query extraction is not configured", RunID: runID})
		return
	}

	extraction, err := s.extractor.Extract(c.Request.Context(), req.Query)
	if err != nil {
		log.Error("filter extraction failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, errorResponse{Error: "filter extraction failed: " + err.Error(), RunID: runID})
		return
	}

	log.Info("parsed filters",
		zap.Strings("skills", extraction.Filters.Skills),
		zap.String("job_level", extraction.Filters.JobLevelValue()),
	)

	s.respond(c, log, runID, extraction.Filters, extraction.Issues)
}

func (s *Server) recommendFilters(c *gin.Context) {
	runID := s.newRunID()

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error(), RunID: runID})
		return
	}

	filters, issues := query.Decode(body)
	s.respond(c, logger.WithRequest(s.logger, runID, ""), runID, filters, issues)
}

func (s *Server) respond(c *gin.Context, log *zap.Logger, runID string, filters query.Filters, issues []query.Issue) {
	res, err := s.engine.Run(c.Request.Context(), filters, issues)
	if err != nil {
		log.Error("recommendation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "recommendation failed", RunID: runID})
		return
	}

	titles := make([]string, 0, len(res.Recommendations))
	for _, rec := range res.Recommendations {
		titles = append(titles, rec.Title)
	}
	log.Info("top recommendations", zap.Strings("titles", titles))

	c.JSON(http.StatusOK, RecommendResponse{
		Recommendations: res.Recommendations,
		RunID:           runID,
		Filters:         filters,
		Issues:          issues,
	})
}
