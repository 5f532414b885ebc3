package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, &Config{
		HTTPPort:        "8080",
		GRPCPort:        "50051",
		AllowedOrigin:   "*",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}, cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	tables := writeFile(t, "tables.yaml", "incisor_share: 0.5\ncanine_share: 0.5\n")
	path := writeFile(t, "planner.yaml", `
http_port: "9090"
allowed_origin: https://clinic.example
tables_path: `+tables+`
read_timeout: 5s
shutdown_timeout: 1m
`)
	t.Setenv("VTO_GRPC_PORT", "6000")
	t.Setenv("VTO_IDLE_TIMEOUT", "2m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "6000", cfg.GRPCPort)
	assert.Equal(t, "https://clinic.example", cfg.AllowedOrigin)
	assert.Equal(t, tables, cfg.TablesPath)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 2*time.Minute, cfg.IdleTimeout)
	assert.Equal(t, time.Minute, cfg.ShutdownTimeout)
}

func TestLoadWithFlags(t *testing.T) {
	t.Setenv("VTO_HTTP_PORT", "7000")

	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	fs.String("http-port", "8080", "")
	fs.String("grpc-port", "50051", "")
	require.NoError(t, fs.Parse([]string{"--http-port", "7100"}))

	cfg, err := LoadWithFlags("", fs)
	require.NoError(t, err)
	assert.Equal(t, "7100", cfg.HTTPPort)
	assert.Equal(t, "50051", cfg.GRPCPort)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "broken.yaml", "http_port: [\n"))
	assert.Error(t, err)

	t.Setenv("VTO_HTTP_PORT", "not-a-port")
	_, err = Load("")
	assert.ErrorContains(t, err, "http_port")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			HTTPPort:        "8080",
			GRPCPort:        "50051",
			AllowedOrigin:   "*",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			IdleTimeout:     time.Second,
			ShutdownTimeout: time.Second,
		}
	}

	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"ok", func(*Config) {}, ""},
		{"port out of range", func(c *Config) { c.GRPCPort = "70000" }, "grpc_port"},
		{"same ports", func(c *Config) { c.GRPCPort = c.HTTPPort }, "must differ"},
		{"empty origin", func(c *Config) { c.AllowedOrigin = "" }, "allowed_origin"},
		{"zero timeout", func(c *Config) { c.WriteTimeout = 0 }, "write_timeout"},
		{"missing tables", func(c *Config) { c.TablesPath = "/nonexistent/tables.yaml" }, "tables_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
