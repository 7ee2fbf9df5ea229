package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focusd/internal/logging"
	"focusd/internal/session"
)

// ContextualizeRequest is the JSON body for POST /api/contextualize.
type ContextualizeRequest struct {
	Domain    string              `json:"domain"`
	Context   session.TaskContext `json:"context"`
	SessionID string              `json:"session_id"`
}

// ContextualizeResponse confirms the stored context binding.
type ContextualizeResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

// ContextualizeHandler binds gathered task context to a session.
type ContextualizeHandler struct {
	sessions *session.Manager
	metrics  *Metrics
	logger   logging.Logger
}

// NewContextualizeHandler creates the contextualize endpoint handler.
func NewContextualizeHandler(sessions *session.Manager, metrics *Metrics) *ContextualizeHandler {
	return &ContextualizeHandler{
		sessions: sessions,
		metrics:  metrics,
		logger:   logging.NewComponentLogger("contextualize-handler"),
	}
}

// Contextualize replaces the session's task context with the submitted Q&A
// pairs. A missing session id gets a generated one, returned to the caller.
func (h *ContextualizeHandler) Contextualize(c *gin.Context) {
	var req ContextualizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.InputErrors.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Domain == "" {
		h.metrics.InputErrors.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "domain is required"})
		return
	}

	id := h.sessions.Bind(req.SessionID, req.Domain, &req.Context)
	h.logger.Info("stored context with %d pairs for session %s (domain=%s)", req.Context.Len(), id, req.Domain)
	c.JSON(http.StatusOK, ContextualizeResponse{Status: "success", SessionID: id})
}
