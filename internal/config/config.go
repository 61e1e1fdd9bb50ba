package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Engine  EngineConfig
	Display DisplayConfig
	HTTP    HTTPConfig
	Chrome  ChromeConfig
	Logging LogConfig
}

// EngineConfig selects the rendering engine and its start page.
type EngineConfig struct {
	Name     string `envconfig:"ENGINE" default:"sim"`
	StartURL string `envconfig:"START_URL" default:""`
}

// DisplayConfig holds view surface configuration.
type DisplayConfig struct {
	Width        uint32        `envconfig:"VIEW_WIDTH" default:"1280"`
	Height       uint32        `envconfig:"VIEW_HEIGHT" default:"720"`
	TickInterval time.Duration `envconfig:"TICK_INTERVAL" default:"100ms"`
}

// HTTPConfig holds HTTP host configuration.
type HTTPConfig struct {
	Addr string `envconfig:"HTTP_ADDR" default:":8090"`
}

// ChromeConfig holds Chrome engine configuration.
type ChromeConfig struct {
	ExecPath        string        `envconfig:"CHROME_PATH" default:""`
	Headless        bool          `envconfig:"CHROME_HEADLESS" default:"true"`
	CaptureInterval time.Duration `envconfig:"CAPTURE_INTERVAL" default:"150ms"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	File        string `envconfig:"LOG_FILE" default:""`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Name: "sim",
		},
		Display: DisplayConfig{
			Width:        1280,
			Height:       720,
			TickInterval: 100 * time.Millisecond,
		},
		HTTP: HTTPConfig{
			Addr: ":8090",
		},
		Chrome: ChromeConfig{
			Headless:        true,
			CaptureInterval: 150 * time.Millisecond,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
