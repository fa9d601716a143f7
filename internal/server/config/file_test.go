package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_parseFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("GOPHFORUM_CONFIG", "")

	jsonPath := writeTempFile(t, "server.json", `{
		"endpoint_addr_grpc": "www.example:9000",
		"database_driver": "pgx",
		"database_dsn": "postgres://forum",
		"secret_key": "my_secret_key",
		"access_token_validity_duration": "1m",
		"refresh_token_validity_duration": 180000000000,
		"page_size": 12,
		"s3_bucket": "bucket",
		"s3_base_endpoint": "http://minio:9000"
	}`)

	yamlPath := writeTempFile(t, "server.yaml", `
endpoint_addr_grpc: "yaml:9000"
log_format: text
avatar_url_validity: 30m
`)

	t.Run("loads json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", jsonPath}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFile(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "pgx", cfg.DatabaseDriver)
		assert.Equal(t, "postgres://forum", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 3*time.Minute, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, 12, cfg.PageSize)
		assert.True(t, cfg.AvatarsEnabled())
		// untouched keys keep their defaults
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 15*time.Minute, cfg.AvatarURLValidity)
	})

	t.Run("loads yaml", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", yamlPath}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFile(cfg)

		assert.Equal(t, "yaml:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, 30*time.Minute, cfg.AvatarURLValidity)
		assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	})

	t.Run("env var names the file", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv("GOPHFORUM_CONFIG", yamlPath)

		cfg := &Config{}
		parseFile(cfg)

		assert.Equal(t, "yaml:9000", cfg.EndpointAddrGRPC)
	})

	t.Run("no file leaves config unchanged", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{EndpointAddrGRPC: "defaults:1234", PageSize: 3}
		parseFile(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrGRPC)
		assert.Equal(t, 3, cfg.PageSize)
	})

	t.Run("invalid json panics", func(t *testing.T) {
		bad := writeTempFile(t, "bad.json", `{ this is not valid json`)
		os.Args = []string{"testbin", "-config", bad}

		require.Panics(t, func() { parseFile(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(t.TempDir(), "nope.yaml")}

		require.Panics(t, func() { parseFile(&Config{}) })
	})
}
