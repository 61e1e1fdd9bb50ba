package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
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

	engine, err := buildEngine(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine: %v\n", err)
		os.Exit(1)
	}
	defer closeEngine(engine, logger)

	status := &statusLine{}
	ctrl := session.New(engine,
		session.WithViewport(backend.Viewport{Width: cfg.Display.Width, Height: cfg.Display.Height}),
		session.WithLogger(logger.Named("session")),
		session.WithCallbacks(session.Callbacks{
			ViewCreated: func(id view.ID) {
				status.set(fmt.Sprintf("view %d opened", id))
			},
			ViewClosed: func(id view.ID) {
				status.set(fmt.Sprintf("view %d closed", id))
			},
			URLChanged: func(id view.ID, url string) {
				logger.Debug("url changed", zap.Uint64("view", uint64(id)), zap.String("url", url))
			},
			TitleChanged: func(id view.ID, title string) {
				logger.Debug("title changed", zap.Uint64("view", uint64(id)), zap.String("title", title))
			},
		}),
	)

	p := tea.NewProgram(newModel(ctrl, cfg, status, logger),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// buildLogger routes logs to the configured file. The TUI owns the terminal,
// so without a file destination logging stays off entirely.
func buildLogger(cfg *config.Config) *zap.Logger {
	if cfg.Logging.File == "" {
		return zap.NewNop()
	}
	logger, err := logging.New(logging.FileConfig(cfg.Logging.File, cfg.Logging.Level))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		return zap.NewNop()
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
