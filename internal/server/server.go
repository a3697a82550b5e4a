// Package server exposes the recommender over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/ai"
	"github.com/spigell/assessment-recommender/internal/recommend"
)

const (
	defaultAddress  = ":8000"
	shutdownTimeout = 10 * time.Second
)

// Config holds the HTTP settings.
type Config struct {
	Address     string   `mapstructure:"address"`
	CORSOrigins []string `mapstructure:"cors-origins"`
}

// Server serves recommendation requests. The extractor is optional; without
// it only the filter endpoint ranks.
type Server struct {
	engine    *recommend.Engine
	extractor ai.Extractor
	logger    *zap.Logger
	address   string
	router    *gin.Engine
	newRunID  func() string
}

func New(engine *recommend.Engine, extractor ai.Extractor, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	address := cfg.Address
	if address == "" {
		address = defaultAddress
	}

	s := &Server{
		engine:    engine,
		extractor: extractor,
		logger:    logger,
		address:   address,
		newRunID:  uuid.NewString,
	}
	s.router = s.routes(cfg.CORSOrigins)
	return s
}

func (s *Server) routes(origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	config := cors.DefaultConfig()
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	r.Use(cors.New(config))

	r.GET("/", s.info)
	r.GET("/health", s.health)
	r.POST("/recommend", s.recommendQuery)
	r.POST("/recommend/filters", s.recommendFilters)

	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Run listens until ctx is done and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("address", s.address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
