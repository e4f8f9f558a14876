package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ORDER_SERVICE_ADDR", "HTTP_CLIENT_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(k, "") // restored after the test
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8082", cfg.OrderSvcAddr)
	assert.Equal(t, 5*time.Second, cfg.HTTPClientTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ORDER_SERVICE_ADDR", ":9090")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "750ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.OrderSvcAddr)
	assert.Equal(t, 750*time.Millisecond, cfg.HTTPClientTimeout)
}

func TestLoad_BadLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")

	_, err := Load()
	require.Error(t, err)
}
