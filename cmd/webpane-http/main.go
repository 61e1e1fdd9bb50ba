// Command webpane-http exposes a browser session over REST: create views,
// navigate them, deliver input, and pull rendered frames as PNG. It is a
// demonstration host; the interesting parts live in the session package.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebPane/backend"
	"github.com/GriffinCanCode/WebPane/backend/cdp"
	_ "github.com/GriffinCanCode/WebPane/backend/sim"
	"github.com/GriffinCanCode/WebPane/internal/config"
	"github.com/GriffinCanCode/WebPane/internal/logging"
	"github.com/GriffinCanCode/WebPane/session"
	"github.com/GriffinCanCode/WebPane/view"
)

func main() {
	cfg := config.LoadOrDefault()

	logger := buildLogger(cfg)
	defer logger.Sync()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	engine, err := buildEngine(cfg, logger)
	if err != nil {
		logger.Fatal("engine construction failed", zap.Error(err))
	}
	defer closeEngine(engine, logger)

	registry := prometheus.NewRegistry()
	ctrl := session.New(engine,
		session.WithViewport(backend.Viewport{Width: cfg.Display.Width, Height: cfg.Display.Height}),
		session.WithLogger(logger.Named("session")),
		session.WithMetrics(session.NewMetrics(registry)),
		session.WithCallbacks(session.Callbacks{
			URLChanged: func(id view.ID, url string) {
				logger.Info("url changed", zap.Uint64("view_id", uint64(id)), zap.String("url", url))
			},
			TitleChanged: func(id view.ID, title string) {
				logger.Info("title changed", zap.Uint64("view_id", uint64(id)), zap.String("title", title))
			},
		}),
	)

	loop := startSessionLoop(ctrl, cfg.Display.TickInterval)
	if cfg.Engine.StartURL != "" {
		openStartPage(loop, cfg.Engine.StartURL, logger)
	}

	srv := newServer(loop, registry, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.run(cfg.HTTP.Addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("shutting down")
		if err := srv.close(); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	case err := <-errChan:
		logger.Fatal("server error", zap.Error(err))
	}
}

func buildLogger(cfg *config.Config) *zap.Logger {
	logCfg := logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	}
	if cfg.Logging.File != "" {
		logCfg.OutputPaths = []string{cfg.Logging.File}
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		return logging.NewDefault()
	}
	return logger
}

func buildEngine(cfg *config.Config, logger *zap.Logger) (backend.Engine, error) {
	if cfg.Engine.Name == backend.EngineCDP {
		opts := cdp.DefaultOptions()
		opts.ExecPath = cfg.Chrome.ExecPath
		opts.Headless = cfg.Chrome.Headless
		if cfg.Chrome.CaptureInterval > 0 {
			opts.CaptureInterval = cfg.Chrome.CaptureInterval
		}
		opts.Logger = logger.Named("cdp")
		return cdp.NewWithOptions(opts)
	}
	return backend.New(cfg.Engine.Name)
}

func closeEngine(engine backend.Engine, logger *zap.Logger) {
	closer, ok := engine.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn("engine close", zap.Error(err))
	}
}

// openStartPage creates the first view before the server accepts traffic,
// so a configured start URL is rendering by the first snapshot request.
func openStartPage(loop *sessionLoop, url string, logger *zap.Logger) {
	src := backend.URLSource(url)
	loop.do(func(ctrl *session.Controller) {
		if err := ctrl.Dispatch(context.Background(), session.CreateView{Source: &src}); err != nil {
			logger.Warn("start page failed", zap.String("url", url), zap.Error(err))
		}
	})
}
