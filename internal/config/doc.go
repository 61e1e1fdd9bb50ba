// Package config provides 12-factor configuration management for the session hosts.
//
// Configuration is loaded from environment variables with sensible defaults.
//
// Configuration Sections:
//   - Engine: rendering engine selection and start page
//   - Display: view surface size and tick cadence
//   - HTTP: HTTP host settings (listen address)
//   - Chrome: Chrome engine settings (binary path, headless, capture pacing)
//   - Logging: log level and output
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("engine %s at %dx%d\n", cfg.Engine.Name, cfg.Display.Width, cfg.Display.Height)
//
// Environment Variables:
//   - ENGINE, START_URL
//   - VIEW_WIDTH, VIEW_HEIGHT, TICK_INTERVAL
//   - HTTP_ADDR
//   - CHROME_PATH, CHROME_HEADLESS, CAPTURE_INTERVAL
//   - LOG_LEVEL, LOG_DEV, LOG_FILE
package config
