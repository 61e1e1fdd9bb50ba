package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Engine config
	assert.Equal(t, "sim", cfg.Engine.Name)
	assert.Empty(t, cfg.Engine.StartURL)

	// Display config
	assert.Equal(t, uint32(1280), cfg.Display.Width)
	assert.Equal(t, uint32(720), cfg.Display.Height)
	assert.Equal(t, 100*time.Millisecond, cfg.Display.TickInterval)

	// HTTP config
	assert.Equal(t, ":8090", cfg.HTTP.Addr)

	// Chrome config
	assert.True(t, cfg.Chrome.Headless)
	assert.Equal(t, 150*time.Millisecond, cfg.Chrome.CaptureInterval)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
}

func TestLoadOrDefault(t *testing.T) {
	// Should return default when no env vars set
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "sim", cfg.Engine.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"ENGINE":           "cdp",
		"START_URL":        "https://example.com",
		"VIEW_WIDTH":       "800",
		"VIEW_HEIGHT":      "600",
		"TICK_INTERVAL":    "50ms",
		"HTTP_ADDR":        ":9000",
		"CHROME_PATH":      "/usr/bin/chromium",
		"CHROME_HEADLESS":  "false",
		"CAPTURE_INTERVAL": "250ms",
		"LOG_LEVEL":        "debug",
		"LOG_DEV":          "true",
		"LOG_FILE":         "/tmp/webpane.log",
	}

	for key, value := range envVars {
		err := os.Setenv(key, value)
		require.NoError(t, err)
		defer os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "cdp", cfg.Engine.Name)
	assert.Equal(t, "https://example.com", cfg.Engine.StartURL)

	assert.Equal(t, uint32(800), cfg.Display.Width)
	assert.Equal(t, uint32(600), cfg.Display.Height)
	assert.Equal(t, 50*time.Millisecond, cfg.Display.TickInterval)

	assert.Equal(t, ":9000", cfg.HTTP.Addr)

	assert.Equal(t, "/usr/bin/chromium", cfg.Chrome.ExecPath)
	assert.False(t, cfg.Chrome.Headless)
	assert.Equal(t, 250*time.Millisecond, cfg.Chrome.CaptureInterval)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, "/tmp/webpane.log", cfg.Logging.File)
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	err := os.Setenv("VIEW_WIDTH", "640")
	require.NoError(t, err)
	defer os.Unsetenv("VIEW_WIDTH")

	err = os.Setenv("LOG_LEVEL", "warn")
	require.NoError(t, err)
	defer os.Unsetenv("LOG_LEVEL")

	cfg, err := Load()
	require.NoError(t, err)

	// Verify overridden values
	assert.Equal(t, uint32(640), cfg.Display.Width)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Verify default values still apply
	assert.Equal(t, uint32(720), cfg.Display.Height)
	assert.Equal(t, "sim", cfg.Engine.Name)
	assert.True(t, cfg.Chrome.Headless)
}

func TestEngineConfig(t *testing.T) {
	tests := []struct {
		name     string
		engine   string
		startURL string
		wantName string
		wantURL  string
	}{
		{
			name:     "default values",
			engine:   "",
			startURL: "",
			wantName: "sim",
			wantURL:  "",
		},
		{
			name:     "chrome engine",
			engine:   "cdp",
			startURL: "",
			wantName: "cdp",
			wantURL:  "",
		},
		{
			name:     "start page",
			engine:   "",
			startURL: "https://go.dev",
			wantName: "sim",
			wantURL:  "https://go.dev",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("ENGINE")
			os.Unsetenv("START_URL")

			if tt.engine != "" {
				err := os.Setenv("ENGINE", tt.engine)
				require.NoError(t, err)
				defer os.Unsetenv("ENGINE")
			}
			if tt.startURL != "" {
				err := os.Setenv("START_URL", tt.startURL)
				require.NoError(t, err)
				defer os.Unsetenv("START_URL")
			}

			cfg := LoadOrDefault()

			assert.Equal(t, tt.wantName, cfg.Engine.Name)
			assert.Equal(t, tt.wantURL, cfg.Engine.StartURL)
		})
	}
}

func TestDisplayConfig(t *testing.T) {
	tests := []struct {
		name       string
		width      string
		height     string
		wantWidth  uint32
		wantHeight uint32
	}{
		{
			name:       "default values",
			width:      "",
			height:     "",
			wantWidth:  1280,
			wantHeight: 720,
		},
		{
			name:       "custom width",
			width:      "1920",
			height:     "",
			wantWidth:  1920,
			wantHeight: 720,
		},
		{
			name:       "custom size",
			width:      "640",
			height:     "480",
			wantWidth:  640,
			wantHeight: 480,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("VIEW_WIDTH")
			os.Unsetenv("VIEW_HEIGHT")

			if tt.width != "" {
				err := os.Setenv("VIEW_WIDTH", tt.width)
				require.NoError(t, err)
				defer os.Unsetenv("VIEW_WIDTH")
			}
			if tt.height != "" {
				err := os.Setenv("VIEW_HEIGHT", tt.height)
				require.NoError(t, err)
				defer os.Unsetenv("VIEW_HEIGHT")
			}

			cfg := LoadOrDefault()

			assert.Equal(t, tt.wantWidth, cfg.Display.Width)
			assert.Equal(t, tt.wantHeight, cfg.Display.Height)
		})
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	err := os.Setenv("TICK_INTERVAL", "not-a-duration")
	require.NoError(t, err)
	defer os.Unsetenv("TICK_INTERVAL")

	_, err = Load()
	assert.Error(t, err)

	// LoadOrDefault absorbs the failure
	cfg := LoadOrDefault()
	assert.Equal(t, 100*time.Millisecond, cfg.Display.TickInterval)
}
