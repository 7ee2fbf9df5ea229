package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"focusd/internal/analyzer"
	"focusd/internal/logging"
	"focusd/internal/session"
)

// AnalyzeRequest is the JSON body for POST /api/analyze.
type AnalyzeRequest struct {
	URL         string              `json:"url"`
	Domain      string              `json:"domain"`
	Context     session.TaskContext `json:"context"`
	SessionID   string              `json:"session_id"`
	Referrer    string              `json:"referrer"`
	DirectVisit bool                `json:"direct_visit"`
}

// AnalyzeHandler serves the page classification endpoint.
type AnalyzeHandler struct {
	analyzer *analyzer.Analyzer
	metrics  *Metrics
	logger   logging.Logger
}

// NewAnalyzeHandler creates the analyze endpoint handler.
func NewAnalyzeHandler(a *analyzer.Analyzer, metrics *Metrics) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: a,
		metrics:  metrics,
		logger:   logging.NewComponentLogger("analyze-handler"),
	}
}

// Analyze classifies a URL against the session's task context. The response
// body is always a well-formed result object; only input errors produce a
// non-200 status.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.InputErrors.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), analyzer.Request{
		URL:         req.URL,
		Domain:      req.Domain,
		SessionID:   req.SessionID,
		Context:     &req.Context,
		Referrer:    req.Referrer,
		DirectVisit: req.DirectVisit,
	})
	if err != nil {
		h.metrics.InputErrors.Inc()
		switch {
		case errors.Is(err, analyzer.ErrMissingURL),
			errors.Is(err, analyzer.ErrMissingDomain),
			errors.Is(err, analyzer.ErrUnknownDomain):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":        err.Error(),
				"isProductive": false,
				"explanation":  "Error processing request: " + err.Error(),
			})
		}
		return
	}

	h.metrics.RecordVerdict(result.IsProductive)
	if result.Cached {
		h.metrics.CacheHits.Inc()
	}
	if result.SearchQueryBlocked {
		h.metrics.GuardBlocks.Inc()
	}

	h.logger.Debug("analyzed %s (domain=%s): productive=%v", req.URL, req.Domain, result.IsProductive)
	c.JSON(http.StatusOK, result)
}
