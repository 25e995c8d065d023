package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"customer_service/internal/app/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, ":8081", cfg.HTTPAddr)
	require.Empty(t, cfg.DatabaseURL)
	require.Equal(t, "data", cfg.DataDir)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, "orders", cfg.KafkaTopic)
	require.Equal(t, "customer-service", cfg.KafkaConsumerGroup)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, 5*time.Second, cfg.ProbeTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_HTTP_ADDR", ":9090")
	t.Setenv("DATABASE_URL", "postgres://app@db/customers")
	t.Setenv("DATA_DIR", "/var/lib/customers")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, "postgres://app@db/customers", cfg.DatabaseURL)
	require.Equal(t, "/var/lib/customers", cfg.DataDir)
	require.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}
