package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerURL)
	assert.Equal(t, TransportHTTP, c.Transport)
	assert.Equal(t, 8*time.Second, c.RequestTimeout)
	assert.Equal(t, 3, c.UnreachableThreshold)
	assert.Equal(t, "/auth/refresh-tokens", c.RefreshPath)
	assert.Equal(t, "/auth/logout", c.LogoutPath)
	assert.Equal(t, "data", c.TokenField)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	envFile = "testdata-does-not-exist.env"
	t.Cleanup(func() { envFile = ".env" })

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerURL)
	assert.Equal(t, 8*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	envFile = "testdata-does-not-exist.env"
	t.Cleanup(func() { envFile = ".env" })

	t.Setenv("SCHOOL_SERVER_URL", "http://env:1")
	t.Setenv("SCHOOL_LOG_LEVEL", "warn")
	path := writeTempJSON(t, "", "", map[string]any{
		"server_url": "http://json:2",
		"log_level":  "debug",
	})
	os.Args = []string{"testbin", "-c", path, "-a", "http://flag:3"}

	cfg := LoadConfig()

	assert.Equal(t, "http://flag:3", cfg.ServerURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_GRPCTransportSwitchesHealthMethod(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	envFile = "testdata-does-not-exist.env"
	t.Cleanup(func() { envFile = ".env" })

	os.Args = []string{"testbin", "-g", "127.0.0.1:50051"}
	cfg := LoadConfig()

	assert.Equal(t, TransportGRPC, cfg.Transport)
	assert.Equal(t, "127.0.0.1:50051", cfg.GRPCAddr)
	assert.Equal(t, GRPCHealthMethod, cfg.HealthPath)

	custom := &Config{Transport: TransportGRPC, HealthPath: "/school.Health/Check"}
	custom.applyTransport()
	assert.Equal(t, "/school.Health/Check", custom.HealthPath)
}
