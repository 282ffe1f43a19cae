package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string
	RedisAddr    string
	RedisDB      int

	OutboxPollInterval time.Duration
	SweepInterval      time.Duration

	EnableAuctionSweeper bool
	EnableOutboxRelay    bool
}

func Load() (Config, error) {
	// Local runs keep infra endpoints in a .env file. Absence is fine.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "bazaar"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,
		RedisAddr:    strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisDB:      0,

		OutboxPollInterval: envDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		SweepInterval:      envDuration("AUCTION_SWEEP_INTERVAL", 10*time.Second),

		EnableAuctionSweeper: envBool("ENABLE_AUCTION_SWEEPER", true),
		EnableOutboxRelay:    envBool("ENABLE_OUTBOX_RELAY", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
