package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focusd/internal/analyzer"
	"focusd/internal/logging"
	"focusd/internal/session"
)

// QuestionRequest is the JSON body for POST /api/question.
type QuestionRequest struct {
	Domain  string              `json:"domain"`
	Context session.TaskContext `json:"context"`
}

// QuestionResponse carries the next contextualization question; the literal
// question "DONE" signals the dialogue is complete.
type QuestionResponse struct {
	Question string `json:"question"`
}

// QuestionHandler serves the question-generation endpoint.
type QuestionHandler struct {
	analyzer *analyzer.Analyzer
	metrics  *Metrics
	logger   logging.Logger
}

// NewQuestionHandler creates the question endpoint handler.
func NewQuestionHandler(a *analyzer.Analyzer, metrics *Metrics) *QuestionHandler {
	return &QuestionHandler{
		analyzer: a,
		metrics:  metrics,
		logger:   logging.NewComponentLogger("question-handler"),
	}
}

// NextQuestion returns the next contextualization question for a domain
// given the Q&A history so far.
func (h *QuestionHandler) NextQuestion(c *gin.Context) {
	var req QuestionRequest
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

	question, done := h.analyzer.NextQuestion(c.Request.Context(), req.Domain, req.Context.Pairs())
	if done {
		c.JSON(http.StatusOK, QuestionResponse{Question: "DONE"})
		return
	}

	h.metrics.QuestionsAsk.Inc()
	h.logger.Debug("generated question for domain %s", req.Domain)
	c.JSON(http.StatusOK, QuestionResponse{Question: question})
}
