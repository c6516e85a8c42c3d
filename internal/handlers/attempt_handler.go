package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-engine/internal/engine"
	"quiz-engine/internal/models"
	"quiz-engine/internal/service"
	"quiz-engine/internal/store"
)

type AttemptHandler struct {
	Service *service.AttemptService
}

func NewAttemptHandler(s *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{Service: s}
}

// StartAttempt opens a timed attempt against a quiz and starts the countdown.
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	var req struct {
		QuizID string `json:"quiz_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	userID := c.GetHeader("X-User-ID")

	started, err := h.Service.StartAttempt(context.Background(), req.QuizID, userID)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
		case errors.As(err, &verr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start attempt", "details": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, started)
}

// Progress reports remaining time and answered count for a live attempt.
func (h *AttemptHandler) Progress(c *gin.Context) {
	progress, err := h.Service.Progress(c.Param("id"), c.GetHeader("X-User-ID"))
	if err != nil {
		h.attemptError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// SelectAnswer records one option choice. Nothing is persisted per answer;
// durability comes only with submission.
func (h *AttemptHandler) SelectAnswer(c *gin.Context) {
	var req struct {
		QuestionIndex *int `json:"question_index" binding:"required"`
		OptionIndex   *int `json:"option_index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer format", "details": err.Error()})
		return
	}
	err := h.Service.SelectAnswer(c.Param("id"), c.GetHeader("X-User-ID"), *req.QuestionIndex, *req.OptionIndex)
	if err != nil {
		h.attemptError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer recorded"})
}

// Submit closes the attempt, scores it and persists the record.
func (h *AttemptHandler) Submit(c *gin.Context) {
	attempt, err := h.Service.Submit(context.Background(), c.Param("id"), c.GetHeader("X-User-ID"))
	if err != nil {
		h.submitError(c, attempt, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempt": attempt})
}

// RetryPersist re-runs the save after a persistence failure. Answers and
// score were never lost; only the write is repeated.
func (h *AttemptHandler) RetryPersist(c *gin.Context) {
	attempt, err := h.Service.RetryPersist(context.Background(), c.Param("id"), c.GetHeader("X-User-ID"))
	if err != nil {
		h.submitError(c, attempt, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempt": attempt})
}

// AggregateStatus returns the caller's standing on a quiz, reconciled from
// attempt history when the denormalized record is stale.
func (h *AttemptHandler) AggregateStatus(c *gin.Context) {
	status, err := h.Service.AggregateStatus(context.Background(), c.Param("quizId"), c.GetHeader("X-User-ID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No attempts for this quiz"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *AttemptHandler) attemptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttemptNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Attempt belongs to another user"})
	case errors.Is(err, service.ErrInvalidIndex):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question or option index out of range"})
	case errors.Is(err, engine.ErrAlreadySubmitted):
		c.JSON(http.StatusConflict, gin.H{"error": "Attempt already submitted"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *AttemptHandler) submitError(c *gin.Context, attempt *models.Attempt, err error) {
	var perr *service.PersistenceError
	if errors.As(err, &perr) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "Saving the attempt failed. Your answers and score are not lost; retry the save.",
			"retryable": true,
			"attempt":   attempt,
		})
		return
	}
	if errors.Is(err, service.ErrAttemptNotClosed) {
		c.JSON(http.StatusConflict, gin.H{"error": "Attempt has not been submitted yet"})
		return
	}
	h.attemptError(c, err)
}
