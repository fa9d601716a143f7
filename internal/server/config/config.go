// Package config handles configuration for the forum server: defaults, an
// optional JSON or YAML file overlay and command-line flags, applied in that
// order.
package config

import "time"

// Config holds runtime settings for the forum server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - DatabaseDriver / DatabaseDSN: "sqlite" (file path or ":memory:") or "pgx" (PostgreSQL DSN).
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - PageSize: default number of threads per listing page.
//   - LogLevel / LogFormat: slog level name and "json" or "text".
//   - S3*: object storage for avatars; disabled while S3Bucket or S3BaseEndpoint is empty.
//   - AvatarURLValidity: lifetime of presigned avatar URLs.
type Config struct {
	EndpointAddrGRPC             string
	DatabaseDriver               string
	DatabaseDSN                  string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	PageSize                     int
	LogLevel                     string
	LogFormat                    string
	S3RootUser                   string
	S3RootPassword               string
	S3Bucket                     string
	S3Region                     string
	S3BaseEndpoint               string
	AvatarURLValidity            time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "data/forum.db"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 24 * time.Hour
	c.PageSize = 8
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.S3Region = "us-east-1"
	c.AvatarURLValidity = 15 * time.Minute
}

// AvatarsEnabled reports whether object storage is configured.
func (c *Config) AvatarsEnabled() bool {
	return c.S3Bucket != "" && c.S3BaseEndpoint != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
