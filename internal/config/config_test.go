package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_DRIVER", "AUTH_TIMEOUT", "USE_KAFKA", "OUTBOX_LIMIT", "KAFKA_BROKERS", "CORS_ORIGIN", "CACHE_MEMORY_FALLBACK"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, 5*time.Second, cfg.AuthTimeout)
	assert.False(t, cfg.UseKafka)
	assert.Equal(t, 10, cfg.OutboxLimit)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "http://localhost:4200", cfg.CORSOrigin)
	assert.False(t, cfg.CacheMemoryFallback)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("AUTH_TIMEOUT", "250ms")
	t.Setenv("USE_KAFKA", "true")
	t.Setenv("OUTBOX_LIMIT", "not-a-number")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CACHE_MEMORY_FALLBACK", "true")

	cfg := LoadConfig()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.AuthTimeout)
	assert.True(t, cfg.UseKafka)
	assert.Equal(t, 10, cfg.OutboxLimit)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.CacheMemoryFallback)
}
