package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-engine/internal/models"
	"quiz-engine/internal/service"
	"quiz-engine/internal/store"
)

type QuizHandler struct {
	Service *service.QuizService
}

func NewQuizHandler(s *service.QuizService) *QuizHandler {
	return &QuizHandler{Service: s}
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var quiz models.Quiz
	if err := c.ShouldBindJSON(&quiz); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz format", "details": err.Error()})
		return
	}
	if err := h.Service.CreateQuiz(context.Background(), &quiz); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create quiz", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

// ListQuizzes returns summaries without answer keys.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.Service.ListQuizzes(context.Background())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	public := make([]models.PublicQuiz, 0, len(quizzes))
	for i := range quizzes {
		public = append(public, quizzes[i].Public())
	}
	c.JSON(http.StatusOK, public)
}

func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.Service.GetQuiz(context.Background(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quiz.Public())
}

func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	var quiz models.Quiz
	if err := c.ShouldBindJSON(&quiz); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quiz.ID = c.Param("id")
	if err := h.Service.UpdateQuiz(context.Background(), &quiz); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz updated successfully"})
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	if err := h.Service.DeleteQuiz(context.Background(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted successfully"})
}
