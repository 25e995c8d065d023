package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string `env:"APP_HTTP_ADDR" envDefault:":8081"`

	// DatabaseURL is optional: when empty the session starts on the local
	// target and never touches the network.
	DatabaseURL string `env:"DATABASE_URL"`
	DataDir     string `env:"DATA_DIR" envDefault:"data"`

	// Kafka is optional: the order feed consumer only runs when brokers are
	// configured.
	KafkaBrokers       []string `env:"KAFKA_BROKERS"`
	KafkaTopic         string   `env:"KAFKA_TOPIC" envDefault:"orders"`
	KafkaConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"customer-service"`
	KafkaMinBytes      int      `env:"KAFKA_MIN_BYTES" envDefault:"1000"`
	KafkaMaxBytes      int      `env:"KAFKA_MAX_BYTES" envDefault:"10000000"`

	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ProbeTimeout    time.Duration `env:"PROBE_TIMEOUT" envDefault:"5s"`
}

func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}
