package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"port": 9090,
		"database_url": "postgres://localhost/interviews",
		"models": {"lite": "gemini-2.0-flash-lite"},
		"temperature": 0.4,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost/interviews", cfg.DatabaseURL)
	assert.Equal(t, "gemini-2.0-flash-lite", cfg.Models.Lite)
	assert.InDelta(t, 0.4, cfg.Temperature, 0.0001)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	content := `
port: 7070
redis_addr: localhost:6379
lock_ttl_seconds: 30
models:
  advanced: gemini-2.5-pro
`
	for _, name := range []string{"config.yaml", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadConfig(writeFile(t, name, content))
			require.NoError(t, err)
			assert.Equal(t, 7070, cfg.Port)
			assert.Equal(t, "localhost:6379", cfg.RedisAddr)
			assert.Equal(t, 30, cfg.LockTTLSeconds)
			assert.Equal(t, "gemini-2.5-pro", cfg.Models.Advanced)
		})
	}
}

func TestLoadConfig_InvalidContent(t *testing.T) {
	_, err := LoadConfig(writeFile(t, "config.json", `{ invalid json }`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")

	_, err = LoadConfig(writeFile(t, "config.yaml", "port: [unclosed"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty is valid", cfg: Config{}},
		{name: "full", cfg: Config{Port: 8080, DatabaseURL: "postgresql://db/x", Temperature: 1}},
		{name: "bad port", cfg: Config{Port: 70000}, wantErr: "port"},
		{name: "negative ttl", cfg: Config{LockTTLSeconds: -1}, wantErr: "lock_ttl_seconds"},
		{name: "hot temperature", cfg: Config{Temperature: 3}, wantErr: "temperature"},
		{name: "mysql url", cfg: Config{DatabaseURL: "mysql://db"}, wantErr: "database_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		DatabaseURL: "postgres://file",
		Models:      ModelsConfig{Lite: "file-lite"},
	}
	defaults := Config{
		DatabaseURL: "postgres://env",
		APIKey:      "env-key",
		RedisAddr:   "redis:6379",
		Models:      ModelsConfig{Lite: "env-lite", Advanced: "env-advanced"},
	}

	result := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "postgres://file", result.DatabaseURL, "file value should win")
	assert.Equal(t, "env-key", result.APIKey)
	assert.Equal(t, "redis:6379", result.RedisAddr)
	assert.Equal(t, "file-lite", result.Models.Lite)
	assert.Equal(t, "env-advanced", result.Models.Advanced)
	assert.Equal(t, DefaultPort, result.Port)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_PASSWORD", "")

	cfg := FromEnv()
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Empty(t, cfg.RedisPassword)
}
