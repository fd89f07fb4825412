package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/signalcards/internal/database"
	"github.com/example/signalcards/internal/session"
	"github.com/example/signalcards/internal/study"
	"github.com/example/signalcards/pkg/models"
)

// sessionRequest mirrors the loadSession contract. An empty learner_id means
// guest mode throughout.
type sessionRequest struct {
	LearnerID   string `json:"learner_id"`
	Mode        string `json:"mode"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Regulation  string `json:"regulation"`
	BoxNumber   int    `json:"box_number"`
	BatchSize   int    `json:"batch_size"`
}

type answerRequest struct {
	LearnerID  string `json:"learner_id"`
	QuestionID string `json:"question_id" binding:"required"`
	Score      *int   `json:"score" binding:"required"`
}

func (s *Server) loadSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode := models.SessionMode(req.Mode)
	if req.Mode == "" {
		mode = models.ModeReview
	}

	cards, err := s.sessions.Compose(c.Request.Context(), req.LearnerID, models.SessionOptions{
		Mode: mode,
		Filter: models.SessionFilter{
			Category:    req.Category,
			Subcategory: req.Subcategory,
			Regulation:  req.Regulation,
		},
		BoxNumber: req.BoxNumber,
		BatchSize: req.BatchSize,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": cards})
}

func (s *Server) submitAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.answers.SubmitAnswer(c.Request.Context(), req.LearnerID, req.QuestionID, *req.Score); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (s *Server) getStats(c *gin.Context) {
	stats, err := s.stats.Stats(c.Request.Context(), c.Param("learnerId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"xp":              stats.XP,
		"total_correct":   stats.TotalCorrect,
		"total_incorrect": stats.TotalIncorrect,
		"streak_days":     stats.StreakDays,
	})
}

func (s *Server) getBoxes(c *gin.Context) {
	counts, err := s.boxes.CountByBox(c.Request.Context(), c.Param("learnerId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	// Always report all five boxes, empty ones as zero.
	boxes := make([]gin.H, 0, models.MaxBox)
	for b := models.MinBox; b <= models.MaxBox; b++ {
		boxes = append(boxes, gin.H{"box": b, "cards": counts[b]})
	}
	c.JSON(http.StatusOK, gin.H{"boxes": boxes})
}

func (s *Server) getCategories(c *gin.Context) {
	counts, err := s.categories.Get(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": counts})
}

// fail maps engine errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, study.ErrInvalidScore),
		errors.Is(err, session.ErrInvalidMode),
		errors.Is(err, session.ErrInvalidBox),
		errors.Is(err, session.ErrLearnerRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	default:
		s.log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
