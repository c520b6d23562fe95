// Package server is the read-only HTTP surface other collaborators query:
// session state, buying power, mode, and Prometheus metrics. Nothing here
// mutates the ledger.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rustyeddy/riskgate/logger"
	"github.com/rustyeddy/riskgate/pipeline"
)

type Config struct {
	Addr string `json:"addr" yaml:"addr"`
}

func DefaultConfig() Config {
	return Config{Addr: ":8086"}
}

type Server struct {
	cfg Config
	pl  *pipeline.Pipeline
	srv *http.Server
}

func New(cfg Config, pl *pipeline.Pipeline) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{cfg: cfg, pl: pl}

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/sessions", s.sessions)
	api.GET("/sessions/:id/state", s.state)
	api.GET("/sessions/:id/buying-power", s.buyingPower)
	api.GET("/sessions/:id/mode", s.mode)

	s.srv = &http.Server{Addr: cfg.Addr, Handler: r}
	return s
}

// Run serves until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	logger.L().Info("http server listening", "addr", s.cfg.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutCtx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "running",
		"sessions": len(s.pl.Sessions()),
	})
}

func (s *Server) sessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": s.pl.Sessions()})
}

func (s *Server) state(c *gin.Context) {
	st, ok := s.pl.State(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) buyingPower(c *gin.Context) {
	bp, ok := s.pl.BuyingPower(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id":   c.Param("id"),
		"buying_power": bp,
	})
}

func (s *Server) mode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"session_id": c.Param("id"),
		"mode":       s.pl.Mode(c.Param("id")),
	})
}
