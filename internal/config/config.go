package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port        string
	LogLevel    string
	StoreDriver string

	MongoURI    string
	MongoDB     string
	DatabaseURL string
	SQLitePath  string

	AuthValidateURL string
	AuthTimeout     time.Duration
	CORSOrigin      string

	RedisAddr           string
	CacheTTL            time.Duration
	CacheMemoryFallback bool

	UseKafka     bool
	KafkaBrokers []string
	KafkaGroupID string

	OutboxPeriod    time.Duration
	OutboxLimit     int
	ShutdownTimeout time.Duration
}

// LoadConfig lee el entorno. Si existe un .env en el directorio actual se carga
// antes, sin pisar variables ya definidas.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "3000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),

		MongoURI:    getEnv("DB_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("DB_NAME", "ms-task"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/mstask?sslmode=disable"),
		SQLitePath:  getEnv("SQLITE_PATH", "./mstask.db"),

		AuthValidateURL: getEnv("AUTH_VALIDATE_URL", "https://ms-auth-chi.vercel.app/ms/auth/validate-token"),
		AuthTimeout:     getDuration("AUTH_TIMEOUT", 5*time.Second),
		CORSOrigin:      getEnv("CORS_ORIGIN", "http://localhost:4200"),

		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:            getDuration("CACHE_TTL", 5*time.Minute),
		CacheMemoryFallback: getBool("CACHE_MEMORY_FALLBACK", false),

		UseKafka:     getBool("USE_KAFKA", false),
		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "ms-task-audit"),

		OutboxPeriod:    getDuration("OUTBOX_PERIOD", 1*time.Second),
		OutboxLimit:     getInt("OUTBOX_LIMIT", 10),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Los valores mal formados caen al valor por defecto.

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
