package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/kdduha/slidegen/internal/models"
	"github.com/kdduha/slidegen/internal/service"
)

type Config struct {
	Server        ServerConfig
	OpenAI        OpenAIConfig
	RedisConfig   RedisConfig
	CacheEnable   bool   `env:"CACHE_ENABLE"`
	TemplatesFile string `env:"TEMPLATES_FILE"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR" envDefault:"redis:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"REDIS_TTL" envDefault:"10m" validate:"gt=0"`
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	Timeout         time.Duration `env:"SERVER_TIMEOUT" envDefault:"5m" validate:"gt=0"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	ThrottleLimit   int           `env:"SERVER_THROTTLE_LIMIT" envDefault:"50" validate:"gt=0"`
}

type OpenAIConfig struct {
	APIKey              string        `env:"OPENAI_API_KEY"`
	BaseURL             string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1" validate:"required,url"`
	Model               string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini" validate:"required"`
	Temperature         float64       `env:"OPENAI_TEMPERATURE" envDefault:"0.7" validate:"gte=0,lte=2"`
	MaxTokens           int           `env:"OPENAI_MAX_TOKENS" envDefault:"4096" validate:"gt=0"`
	Timeout             time.Duration `env:"OPENAI_TIMEOUT" envDefault:"60s" validate:"gt=0"`
	RetryAttempts       int           `env:"OPENAI_RETRY_ATTEMPTS" envDefault:"3" validate:"gt=0"`
	RetryDelay          time.Duration `env:"OPENAI_RETRY_DELAY" envDefault:"1s" validate:"gt=0"`
	MaxRetryDelay       time.Duration `env:"OPENAI_MAX_RETRY_DELAY" envDefault:"30s" validate:"gt=0"`
	CredentialPrefix    string        `env:"OPENAI_KEY_PREFIX" envDefault:"sk-"`
	CredentialMinLength int           `env:"OPENAI_KEY_MIN_LENGTH" envDefault:"20" validate:"gte=0"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ClientConfig projects the OpenAI section onto the generator configuration.
func (c OpenAIConfig) ClientConfig() service.ClientConfig {
	temperature := c.Temperature
	maxTokens := c.MaxTokens
	return service.ClientConfig{
		APIKey:        c.APIKey,
		BaseURL:       c.BaseURL,
		DefaultModel:  c.Model,
		Timeout:       c.Timeout,
		RetryAttempts: c.RetryAttempts,
		RetryDelay:    c.RetryDelay,
		MaxRetryDelay: c.MaxRetryDelay,
		Defaults: models.GenerationOptions{
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
		},
		Credential: service.CredentialRule{
			Prefix:    c.CredentialPrefix,
			MinLength: c.CredentialMinLength,
		},
	}
}
