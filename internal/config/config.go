package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Marcial-ar/tpv/internal/domain"
	"github.com/Marcial-ar/tpv/internal/pos"
)

type Config struct {
	Port                string
	PostgresURL         string
	DBSchema            string
	RedisAddr           string
	KafkaBrokers        []string
	OrderCompletedTopic string
	CatalogCacheTTL     time.Duration
	ServiceVersion      string
	POS                 pos.Config
}

// Load reads the configuration from the environment. POSTGRES_URL is the only
// required variable.
func Load() (Config, error) {
	cfg := Config{
		Port:                getenv("PORT", "8080"),
		PostgresURL:         os.Getenv("POSTGRES_URL"),
		DBSchema:            getenv("DB_SCHEMA", "pos"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		KafkaBrokers:        splitCSV(os.Getenv("KAFKA_BROKERS")),
		OrderCompletedTopic: getenv("ORDER_COMPLETED_TOPIC", "pos.order.completed"),
		ServiceVersion:      getenv("SERVICE_VERSION", "1.0.0"),
		POS:                 pos.DefaultConfig(),
	}

	if cfg.PostgresURL == "" {
		return Config{}, errors.New("POSTGRES_URL environment variable is required")
	}

	ttl, err := time.ParseDuration(getenv("CATALOG_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("CATALOG_CACHE_TTL: %w", err)
	}
	cfg.CatalogCacheTTL = ttl

	if v := os.Getenv("TAX_RATE"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			return Config{}, fmt.Errorf("TAX_RATE: %w", err)
		}
		if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return Config{}, fmt.Errorf("TAX_RATE: %s is outside [0, 1)", v)
		}
		cfg.POS.Pricer = pos.NewPricer(rate)
	}

	if v := os.Getenv("ZONE_POLICY"); v != "" {
		policy, err := pos.ParseZonePolicy(v)
		if err != nil {
			return Config{}, fmt.Errorf("ZONE_POLICY: %w", err)
		}
		cfg.POS.ZonePolicy = policy
	}

	if v := os.Getenv("DEFAULT_ZONE"); v != "" {
		zone, err := domain.ParseZone(v)
		if err != nil {
			return Config{}, fmt.Errorf("DEFAULT_ZONE: %w", err)
		}
		cfg.POS.DefaultZone = zone
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
