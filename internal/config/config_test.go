package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 9090, cfg.GRPC.Port)
	assert.Equal(t, "", cfg.Auth.APIToken)
	assert.Equal(t, "orders.imported", cfg.Messaging.Kafka.Topic)
	assert.Equal(t, 5*time.Minute, cfg.Cache.DefaultTTL)
	assert.Equal(t, "orderhub", cfg.Observability.ServiceName)
}

func TestNewEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("API_TOKEN", "env_secret")
	t.Setenv("KAFKA_TOPIC", "orders.testing")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.HTTP.Port)
	assert.Equal(t, "env_secret", cfg.Auth.APIToken)
	assert.Equal(t, "orders.testing", cfg.Messaging.Kafka.Topic)
}

func TestNewDisabledCacheForcesNoopDriver(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_DRIVER", "redis")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "noop", cfg.Cache.Driver)
}

func TestNewDisabledMessagingForcesNoopDriver(t *testing.T) {
	t.Setenv("MESSAGING_ENABLED", "false")
	t.Setenv("MESSAGING_DRIVER", "kafka")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "noop", cfg.Messaging.Driver)
}

func TestNewRejectsUnknownCacheDriver(t *testing.T) {
	t.Setenv("CACHE_DRIVER", "memcached")

	_, err := New()
	assert.Error(t, err)
}

func TestNewRejectsBadHTTPPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "-1")

	_, err := New()
	assert.Error(t, err)
}

func TestNewReaderFallsBackToWriter(t *testing.T) {
	t.Setenv("DB_WRITER_DSN", "postgres://writer:writer@db:5432/orderhub")
	t.Setenv("DB_READER_DSN", "")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, cfg.Database.WriterDSN, cfg.Database.ReaderDSN)
}
