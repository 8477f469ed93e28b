package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Token verification modes.
const (
	AuthFirebase = "firebase"
	AuthHMAC     = "hmac"
)

// Config holds all configuration for the application.
type Config struct {
	Port     string `mapstructure:"PORT"`
	GinMode  string `mapstructure:"GIN_MODE"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	ClientURL string `mapstructure:"CLIENT_URL"`

	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	AuthMode                         string `mapstructure:"AUTH_MODE"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	JWTSecret                        string `mapstructure:"JWT_SECRET"`

	StripeSecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	PaymentCurrency     string `mapstructure:"PAYMENT_CURRENCY"`

	// DataDir overrides the embedded division/warehouse files when set.
	DataDir string `mapstructure:"DATA_DIR"`
}

var keys = []string{
	"PORT", "GIN_MODE", "LOG_LEVEL", "CLIENT_URL",
	"STORAGE_DRIVER", "MONGO_URI", "MONGO_DATABASE",
	"AUTH_MODE", "FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "JWT_SECRET",
	"STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET", "PAYMENT_CURRENCY",
	"DATA_DIR",
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "5000")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CLIENT_URL", "http://localhost:5173")
	v.SetDefault("STORAGE_DRIVER", StorageMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "profast")
	v.SetDefault("AUTH_MODE", AuthFirebase)
	v.SetDefault("PAYMENT_CURRENCY", "bdt")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every setting the selected drivers depend on is present.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required when STORAGE_DRIVER=mongo")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.AuthMode {
	case AuthFirebase:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required when AUTH_MODE=firebase")
		}
	case AuthHMAC:
		if len(c.JWTSecret) < 16 {
			return errors.New("JWT_SECRET of at least 16 bytes is required when AUTH_MODE=hmac")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}

	if c.StripeWebhookSecret != "" && c.StripeSecretKey == "" {
		return errors.New("STRIPE_SECRET_KEY is required when STRIPE_WEBHOOK_SECRET is set")
	}
	if c.PaymentCurrency == "" {
		return errors.New("PAYMENT_CURRENCY cannot be empty")
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return strings.EqualFold(c.GinMode, "release")
}
