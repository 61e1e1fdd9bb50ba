package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// server wraps the HTTP surface around the session loop.
type server struct {
	router *gin.Engine
	srv    *http.Server
	loop   *sessionLoop
	logger *zap.Logger
}

func newServer(loop *sessionLoop, reg *prometheus.Registry, logger *zap.Logger) *server {
	router := gin.New()
	router.Use(gin.Recovery())

	h := newHandlers(loop, logger)

	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// View lifecycle
	router.POST("/views", h.CreateView)
	router.GET("/views", h.ListViews)
	router.GET("/views/:id", h.GetView)
	router.DELETE("/views/:id", h.CloseView)
	router.POST("/views/:id/select", h.SelectView)

	// Navigation
	router.POST("/views/:id/navigate", h.Navigate)
	router.POST("/views/:id/reload", h.Reload)
	router.POST("/views/:id/back", h.GoBack)
	router.POST("/views/:id/forward", h.GoForward)

	// Input
	router.POST("/views/:id/input/key", h.KeyInput)
	router.POST("/views/:id/input/pointer", h.PointerInput)
	router.POST("/views/:id/input/scroll", h.ScrollInput)

	// Presentation
	router.GET("/views/:id/frame.png", h.Snapshot)
	router.POST("/views/:id/repaint", h.ForceRepaint)
	router.POST("/resize", h.Resize)

	return &server{router: router, loop: loop, logger: logger}
}

// run serves until the listener fails or close is called.
func (s *server) run(addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http host listening", zap.String("addr", addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// close drains in-flight requests, then stops the session loop.
func (s *server) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var err error
	if s.srv != nil {
		err = s.srv.Shutdown(ctx)
	}
	s.loop.stop()
	return err
}
