// Package config handles configuration for the client console: defaults,
// JSON overlay and command-line flags, later sources overriding earlier ones.
package config

import "time"

// Config holds runtime settings for the station console.
//
// Fields:
//   - ServerURL: websocket URL of the station server endpoint.
//   - RequestTimeout: how long a command may wait for its acknowledgement.
//   - ReconnectMinDelay / ReconnectMaxDelay: bounds for the exponential
//     backoff between reconnect attempts.
type Config struct {
	ServerURL         string
	RequestTimeout    time.Duration
	ReconnectMinDelay time.Duration
	ReconnectMaxDelay time.Duration
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "ws://127.0.0.1:8087/ws"
	c.RequestTimeout = 15 * time.Second
	c.ReconnectMinDelay = 500 * time.Millisecond
	c.ReconnectMaxDelay = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
