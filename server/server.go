// Package server exposes the assistant over HTTP: a single /ask endpoint,
// a health check and the static chat page.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/askcampus/campusrag/rag"
)

// Asker answers a question; *campusrag.Assistant satisfies it.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Server wraps the HTTP surface around an Asker.
type Server struct {
	engine    *gin.Engine
	assistant Asker
	logger    rag.Logger
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a Server. indexPath optionally points at a static index.html
// served at /; an empty path or a missing file disables it. The frontend is
// served from a different origin during development, so CORS is wide open.
func New(assistant Asker, indexPath string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type"},
	}))

	s := &Server{
		engine:    engine,
		assistant: assistant,
		logger:    rag.GlobalLogger,
	}

	engine.GET("/healthz", s.handleHealth)
	engine.POST("/ask", s.handleAsk)
	if indexPath != "" {
		if _, err := os.Stat(indexPath); err == nil {
			engine.StaticFile("/", indexPath)
		} else {
			s.logger.Warn("index page not found, / disabled", "path", indexPath)
		}
	}

	return s
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) handleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "question is required"})
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "question is required"})
		return
	}

	answer, err := s.assistant.Ask(c.Request.Context(), question)
	if err != nil {
		s.logger.Error("ask failed", "error", err)
		c.JSON(http.StatusBadGateway, errorResponse{Error: "failed to answer question"})
		return
	}
	c.JSON(http.StatusOK, askResponse{Answer: answer})
}

// Run serves until the context is canceled, then drains connections for up
// to 10 seconds.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}
