// Package server is the thin HTTP layer over the scheduling engine, consumed
// by the flashcard web UI. No wire protocol is essential to the engine; the
// handlers translate JSON to the in-process calls and back.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/example/signalcards/internal/content"
	"github.com/example/signalcards/pkg/models"
)

// SessionLoader composes study sessions (implemented by session.Composer).
type SessionLoader interface {
	Compose(ctx context.Context, learnerID string, opts models.SessionOptions) ([]models.SessionQuestion, error)
}

// AnswerSubmitter records answers (implemented by study.Pipeline).
type AnswerSubmitter interface {
	SubmitAnswer(ctx context.Context, learnerID, questionID string, score int) error
}

// StatsProvider serves learner aggregates (implemented by study.Aggregator).
type StatsProvider interface {
	Stats(ctx context.Context, learnerID string) (*models.UserStats, error)
}

// BoxCounter serves per-box card counts for the box picker.
type BoxCounter interface {
	CountByBox(ctx context.Context, learnerID string) (map[int]int, error)
}

// Server wires the gin engine and its dependencies.
type Server struct {
	engine     *gin.Engine
	sessions   SessionLoader
	answers    AnswerSubmitter
	stats      StatsProvider
	boxes      BoxCounter
	categories *content.CategoryCache
	log        *zap.Logger
	timeout    time.Duration
}

// New builds the HTTP server and registers all routes.
func New(sessions SessionLoader, answers AnswerSubmitter, stats StatsProvider, boxes BoxCounter, categories *content.CategoryCache, log *zap.Logger, timeout time.Duration, origins []string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:     engine,
		sessions:   sessions,
		answers:    answers,
		stats:      stats,
		boxes:      boxes,
		categories: categories,
		log:        log,
		timeout:    timeout,
	}

	engine.Use(s.requestLogger())
	engine.Use(s.requestTimeout())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	{
		api.POST("/session", s.loadSession)
		api.POST("/answer", s.submitAnswer)
		api.GET("/stats/:learnerId", s.getStats)
		api.GET("/boxes/:learnerId", s.getBoxes)
		api.GET("/categories", s.getCategories)
	}
	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// requestTimeout bounds every request with the configured deadline so a slow
// store read fails distinguishably instead of hanging the caller.
func (s *Server) requestTimeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
