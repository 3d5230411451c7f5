package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	LockBackendLocal = "local"
	LockBackendRedis = "redis"

	EventsSinkNone  = "none"
	EventsSinkRedis = "redis"
	EventsSinkKafka = "kafka"
)

type AppConfig struct {
	Env      string `env:"APP_ENV" env-default:"production"`
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`
	GRPCAddr string `env:"GRPC_ADDR" env-default:":8081"`

	RedisAddr string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPass string `env:"REDIS_PASS"`
	RedisDB   int    `env:"REDIS_DB" env-default:"0"`

	LockBackend  string        `env:"LOCK_BACKEND" env-default:"local"`
	LockTTL      time.Duration `env:"LOCK_TTL" env-default:"10s"`
	LockWait     time.Duration `env:"LOCK_WAIT" env-default:"5s"`
	TxMaxRetries int           `env:"TX_MAX_RETRIES" env-default:"16"`
	SessionTTL   time.Duration `env:"SESSION_TTL" env-default:"2h"`

	EventsSink    string   `env:"EVENTS_SINK" env-default:"none"`
	EventsChannel string   `env:"EVENTS_CHANNEL" env-default:"transaction_events"`
	KafkaBrokers  []string `env:"KAFKA_BROKERS" env-default:"localhost:9092" env-separator:","`
	KafkaTopic    string   `env:"KAFKA_TOPIC" env-default:"banking.transactions"`

	RateLimit  int           `env:"RATE_LIMIT" env-default:"100"`
	RateWindow time.Duration `env:"RATE_WINDOW" env-default:"1m"`
	RateBlock  time.Duration `env:"RATE_BLOCK" env-default:"10m"`
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("couldn't read environment variables: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *AppConfig) validate() error {
	switch c.LockBackend {
	case LockBackendLocal, LockBackendRedis:
	default:
		return fmt.Errorf("LOCK_BACKEND must be %q or %q, got %q", LockBackendLocal, LockBackendRedis, c.LockBackend)
	}
	switch c.EventsSink {
	case EventsSinkNone, EventsSinkRedis, EventsSinkKafka:
	default:
		return fmt.Errorf("EVENTS_SINK must be one of none, redis, kafka, got %q", c.EventsSink)
	}
	if c.EventsSink == EventsSinkKafka && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when EVENTS_SINK=kafka")
	}
	return nil
}
