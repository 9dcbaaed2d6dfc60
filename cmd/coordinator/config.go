package main

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/Netflix/go-env"
)

// Config is read from the environment (optionally seeded from a .env file).
type Config struct {
	Host                  string        `env:"HOST"`
	LogLevel              string        `env:"LOG_LEVEL,default=INFO"`
	Port                  int           `env:"PORT,default=8080"`
	CommandLogCapacity    int           `env:"COMMAND_LOG_CAPACITY,default=200"`
	MaxBodyBytes          int64         `env:"MAX_BODY_BYTES,default=1048576"`
	PresenceTTL           time.Duration `env:"PRESENCE_TTL,default=0s"`
	PresenceSweepInterval time.Duration `env:"PRESENCE_SWEEP_INTERVAL,default=30s"`
	ShutdownTimeout       time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`
	CommandsEnabled       bool          `env:"COMMANDS_ENABLED,default=true"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be in [0, 65535], got %d", c.Port)
	}
	if c.CommandLogCapacity <= 0 {
		return fmt.Errorf("COMMAND_LOG_CAPACITY must be positive, got %d", c.CommandLogCapacity)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.PresenceTTL < 0 {
		return fmt.Errorf("PRESENCE_TTL must not be negative, got %s", c.PresenceTTL)
	}
	if c.PresenceTTL > 0 && c.PresenceSweepInterval <= 0 {
		return fmt.Errorf("PRESENCE_SWEEP_INTERVAL must be positive when PRESENCE_TTL is set, got %s", c.PresenceSweepInterval)
	}
	return nil
}

// Address is the listen address, e.g. ":8080".
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
