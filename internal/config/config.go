package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

const (
	KVBackendMemory = "memory"
	KVBackendGorm   = "gorm"
	KVBackendRedis  = "redis"
)

// Config holds application configuration.
type Config struct {
	AppName          string
	AppVersion       string
	Environment      string
	HTTPAddr         string
	AuthCookieSecure bool
	CORSOrigins      []string

	LoginRatePerMinute float64
	LoginBurst         int

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64

	KVBackend     string
	KVCompression bool
	KVKeyPrefix   string

	InvoiceNumberTemplate string
	OrganizationConfigDir string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Module expects Config to be supplied by the caller so storage wiring can
// be chosen before the graph is built.
var Module = fx.Module("config",
	fx.Provide(NewOrganizationConfigHolder),
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	cfg := Config{
		AppName:               getenv("APP_SERVICE", "hotelbill"),
		AppVersion:            getenv("APP_VERSION", "0.1.0"),
		Environment:           environment,
		HTTPAddr:              getenv("HTTP_ADDR", ":8080"),
		AuthCookieSecure:      authCookieSecure,
		CORSOrigins:           parseList(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		LoginRatePerMinute:    getenvFloat("LOGIN_RATE_PER_MINUTE", 5),
		LoginBurst:            getenvInt("LOGIN_BURST", 5),
		OtelEnabled:           getenvBool("OTEL_ENABLED", false),
		OtelExporterEndpoint:  strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")),
		OtelExporterProtocol:  strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")),
		OtelSamplingRatio:     getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		KVBackend:             normalizeBackend(getenv("KV_BACKEND", KVBackendMemory)),
		KVCompression:         getenvBool("KV_COMPRESSION", false),
		KVKeyPrefix:           strings.TrimSpace(getenv("KV_KEY_PREFIX", "hotelbill:")),
		InvoiceNumberTemplate: strings.TrimSpace(getenv("INVOICE_NUMBER_TEMPLATE", "")),
		OrganizationConfigDir: strings.TrimSpace(getenv("ORGANIZATION_CONFIG_DIR", "")),
		DBType:                getenv("DATABASE_TYPE", "sqlite"),
		DBHost:                getenv("DATABASE_HOST", "localhost"),
		DBPort:                getenv("DATABASE_PORT", "5432"),
		DBName:                getenv("DATABASE_NAME", "hotelbill"),
		DBUser:                getenv("DATABASE_USER", "postgres"),
		DBPassword:            getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:             getenv("DATABASE_SSLMODE", "disable"),
		DBPath:                getenv("DATABASE_PATH", "hotelbill.db"),
		DBMaxIdleConn:         getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:         getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime:     getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime:     getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		RedisAddr:             strings.TrimSpace(getenv("REDIS_ADDR", "localhost:6379")),
		RedisPassword:         strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
		RedisDB:               getenvInt("REDIS_DB", 0),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func normalizeBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case KVBackendGorm, "db", "sql":
		return KVBackendGorm
	case KVBackendRedis:
		return KVBackendRedis
	default:
		return KVBackendMemory
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
