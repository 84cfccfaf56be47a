package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JONX_HOST", "")
	t.Setenv("JONX_PORT", "")
	t.Setenv("JONX_PUB_ENDPOINT", "")

	cfg := LoadConfig()
	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8000, cfg.ServerPort)
	assert.Empty(t, cfg.PubEndpoint)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("JONX_HOST", "127.0.0.1")
	t.Setenv("JONX_PORT", "9001")
	t.Setenv("JONX_PUB_ENDPOINT", "tcp://*:7001")

	cfg := LoadConfig()
	assert.Equal(t, "127.0.0.1", cfg.ServerHost)
	assert.Equal(t, 9001, cfg.ServerPort)
	assert.Equal(t, "tcp://*:7001", cfg.PubEndpoint)
}

func TestLoadConfigBadPortFallsBack(t *testing.T) {
	t.Setenv("JONX_PORT", "not-a-number")
	cfg := LoadConfig()
	assert.Equal(t, 8000, cfg.ServerPort)
}
