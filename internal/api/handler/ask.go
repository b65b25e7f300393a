package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tubebrief/tubebrief/internal/domain"
	"github.com/tubebrief/tubebrief/internal/service"
)

// AskHandler handles the question-answering endpoint.
type AskHandler struct {
	answers *service.AnswerService
}

// NewAskHandler creates a new ask handler.
// Parameters:
//   - answers: answer service instance.
// Returns:
//   - *AskHandler: initialized handler.
func NewAskHandler(answers *service.AnswerService) *AskHandler {
	return &AskHandler{answers: answers}
}

type askRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	VideoTitle string `json:"video_title" binding:"required"`
	Query      string `json:"query" binding:"required"`
}

// Ask handles POST /api/v1/ask.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AskHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	answer, err := h.answers.Answer(c.Request.Context(), req.UserID, req.VideoTitle, req.Query)
	if err != nil {
		status, msg := classifyAnswerError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer": answer,
	})
}

// classifyAnswerError maps pipeline errors to HTTP statuses.
func classifyAnswerError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrBlogNotFound):
		return http.StatusNotFound, "No processed video found with this title for the user"
	case errors.Is(err, domain.ErrNoRelevantContent):
		return http.StatusNotFound, "No relevant transcript content found for this question"
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusBadGateway, "Upstream model provider is unavailable"
	case errors.Is(err, domain.ErrAnswerGenerationFailed):
		return http.StatusBadGateway, "Answer generation failed"
	default:
		return http.StatusInternalServerError, "Failed to answer question: " + err.Error()
	}
}
