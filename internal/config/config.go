// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/pricofy/voice-translator/internal/storage"
	"github.com/pricofy/voice-translator/internal/translator"
)

// Translator backends.
const (
	BackendMyMemory = "mymemory"
	BackendLambda   = "lambda"
)

// Config is the service configuration.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Default language for user-facing messages.
	MessageLocale string `env:"MESSAGE_LOCALE" envDefault:"es"`

	TranslatorBackend  string `env:"TRANSLATOR_BACKEND" envDefault:"mymemory"`
	MyMemoryURL        string `env:"MYMEMORY_URL"`
	MyMemoryEmail      string `env:"MYMEMORY_EMAIL"`
	TranslatorFunction string `env:"TRANSLATOR_FUNCTION"`

	PollyEngine string `env:"POLLY_ENGINE" envDefault:"standard"`

	// Optional S3 storage for synthesized audio. When AudioBucket is empty
	// audio is returned inline.
	AudioBucket    string        `env:"AUDIO_BUCKET"`
	AudioPrefix    string        `env:"AUDIO_PREFIX" envDefault:"speech"`
	S3Endpoint     string        `env:"S3_ENDPOINT"`
	S3AccessKey    string        `env:"S3_ACCESS_KEY"`
	S3SecretKey    string        `env:"S3_SECRET_KEY"`
	S3Region       string        `env:"S3_REGION"`
	S3UseSSL       bool          `env:"S3_USE_SSL" envDefault:"true"`
	AudioURLExpiry time.Duration `env:"AUDIO_URL_EXPIRY" envDefault:"15m"`
}

// Load reads an optional .env file, parses the environment and validates it.
func Load() (*Config, error) {
	// .env is optional when variables come from the Lambda environment.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks cross-field rules and fills derived defaults.
func (c *Config) validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: LOG_LEVEL %q is invalid", c.LogLevel)
	}

	switch c.TranslatorBackend {
	case BackendMyMemory:
		if c.MyMemoryURL == "" {
			c.MyMemoryURL = translator.DefaultMyMemoryURL
		}
	case BackendLambda:
		if strings.TrimSpace(c.TranslatorFunction) == "" {
			return fmt.Errorf("config: TRANSLATOR_FUNCTION is required with the lambda backend")
		}
	default:
		return fmt.Errorf("config: TRANSLATOR_BACKEND must be %q or %q, got %q", BackendMyMemory, BackendLambda, c.TranslatorBackend)
	}

	switch c.PollyEngine {
	case "standard", "neural":
	default:
		return fmt.Errorf("config: POLLY_ENGINE must be standard or neural, got %q", c.PollyEngine)
	}

	if c.AudioBucket != "" {
		if c.S3Endpoint == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("config: AUDIO_BUCKET requires S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY")
		}
		if c.AudioURLExpiry <= 0 || c.AudioURLExpiry > 7*24*time.Hour {
			return fmt.Errorf("config: AUDIO_URL_EXPIRY must be between 1s and 7 days")
		}
	}

	return nil
}

// Level returns the configured log level.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// StorageEnabled reports whether synthesized audio goes to S3.
func (c *Config) StorageEnabled() bool {
	return c.AudioBucket != ""
}

// Storage returns the object storage settings.
func (c *Config) Storage() storage.Config {
	return storage.Config{
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Bucket:    c.AudioBucket,
		Region:    c.S3Region,
		Prefix:    c.AudioPrefix,
		UseSSL:    c.S3UseSSL,
		URLExpiry: c.AudioURLExpiry,
	}
}
