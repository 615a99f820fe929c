// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the station server.
//
// Fields:
//   - EndpointAddr: bind address for the websocket endpoint.
//   - MetricsAddr: bind address for the Prometheus /metrics endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx); empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use defaults in prod.
//   - TokenValidityDuration: access token lifetime.
//   - StatusInterval: period between station-status broadcast events.
//   - S3AccessKey / S3SecretKey / S3Bucket / S3Region / S3BaseEndpoint:
//     object storage settings for recording archives.
type Config struct {
	EndpointAddr          string
	MetricsAddr           string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	StatusInterval        time.Duration
	S3AccessKey           string
	S3SecretKey           string
	S3Bucket              string
	S3Region              string
	S3BaseEndpoint        string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8087"
	c.MetricsAddr = ":9187"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 12 * time.Hour
	c.StatusInterval = 10 * time.Second
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Bucket = "recordings"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
