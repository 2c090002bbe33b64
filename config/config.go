package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Observ   ObservabilityConfig
	Auth     AuthConfig
	Business BusinessConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig points at an optional read-only catalog database.
// An empty URL means the built-in product list is served.
type DatabaseConfig struct {
	CatalogURL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// ScopeBackend selects the cross-stage store: "memory" or "redis".
	ScopeBackend string
	ScopeTTL     time.Duration
}

type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	TopicOrder    string
	ConsumerGroup string
}

type ObservabilityConfig struct {
	TracingEnabled bool
	JaegerEndpoint string
	PrometheusPort string
}

type AuthConfig struct {
	SessionSecret string
	SessionTTL    time.Duration
}

// BusinessConfig holds the storefront pricing rules and the simulated
// latencies of the mock network operations.
type BusinessConfig struct {
	CheckoutStartDelay time.Duration
	AddressDelay       time.Duration
	PaymentDelay       time.Duration
	AuthDelay          time.Duration
	ShippingFlatFee    decimal.Decimal
	TaxRate            decimal.Decimal
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			CatalogURL: getEnv("CATALOG_DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           redisDB,
			ScopeBackend: strings.ToLower(getEnv("SCOPE_BACKEND", "memory")),
			ScopeTTL:     getMinutes("SCOPE_TTL_MINUTES", 120),
		},
		Kafka: KafkaConfig{
			Enabled:       getBool("KAFKA_ENABLED", false),
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicOrder:    getEnv("KAFKA_TOPIC_ORDER_EVENTS", "storefront-order-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "storefront-order-history"),
		},
		Observ: ObservabilityConfig{
			TracingEnabled: getBool("TRACING_ENABLED", false),
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
			PrometheusPort: getEnv("PROMETHEUS_PORT", "9090"),
		},
		Auth: AuthConfig{
			SessionSecret: getEnv("SESSION_SECRET", "storefront-dev-secret"),
			SessionTTL:    getMinutes("SESSION_TTL_MINUTES", 120),
		},
		Business: BusinessConfig{
			CheckoutStartDelay: getMillis("CHECKOUT_START_DELAY_MS", 500),
			AddressDelay:       getMillis("ADDRESS_DELAY_MS", 1500),
			PaymentDelay:       getMillis("PAYMENT_DELAY_MS", 2000),
			AuthDelay:          getMillis("AUTH_DELAY_MS", 1000),
			ShippingFlatFee:    getDecimal("SHIPPING_FLAT_FEE", "10"),
			TaxRate:            getDecimal("TAX_RATE", "0.08"),
		},
	}

	// Scope keys must not expire while their session is still alive.
	if cfg.Redis.ScopeTTL < cfg.Auth.SessionTTL {
		cfg.Redis.ScopeTTL = cfg.Auth.SessionTTL
	}

	log.Printf("Config loaded: env=%s, port=%s, scope=%s", cfg.Server.Env, cfg.Server.Port, cfg.Redis.ScopeBackend)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultVal)))
	if err != nil {
		return defaultVal
	}
	return b
}

func getMillis(key string, defaultVal int) time.Duration {
	ms, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultVal)))
	if err != nil || ms < 0 {
		ms = defaultVal
	}
	return time.Duration(ms) * time.Millisecond
}

func getMinutes(key string, defaultVal int) time.Duration {
	m, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultVal)))
	if err != nil || m <= 0 {
		m = defaultVal
	}
	return time.Duration(m) * time.Minute
}

func getDecimal(key, defaultVal string) decimal.Decimal {
	d, err := decimal.NewFromString(getEnv(key, defaultVal))
	if err != nil {
		return decimal.RequireFromString(defaultVal)
	}
	return d
}
