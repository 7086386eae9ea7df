// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config stores all configuration of the client and of the fake ledger.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	LedgerBaseURL     string        `mapstructure:"LEDGER_BASE_URL" validate:"required,url"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	MinTransferAmount string        `mapstructure:"MIN_TRANSFER_AMOUNT" validate:"omitempty,numeric"`
	RecentLimit       int           `mapstructure:"RECENT_LIMIT" validate:"gte=0"`
	Environement      string        `mapstructure:"GO_ENV"`
	RefreshInterval   time.Duration `mapstructure:"REFRESH_INTERVAL"`

	BankUsername string `mapstructure:"BANK_USERNAME"`
	BankPassword string `mapstructure:"BANK_PASSWORD"`
	BankToken    string `mapstructure:"BANK_TOKEN"`
	BankOwner    string `mapstructure:"BANK_OWNER"`

	RedisAddress string        `mapstructure:"REDIS_ADDRESS" validate:"omitempty,hostname_port"`
	SnapshotTTL  time.Duration `mapstructure:"SNAPSHOT_TTL"`

	MetricsAddress string `mapstructure:"METRICS_ADDRESS" validate:"omitempty,hostname_port"`

	ServerAddress       string        `mapstructure:"SERVER_ADDRESS"`
	TokenSymmetricKey   string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	TokenKind           string        `mapstructure:"TOKEN_KIND" validate:"omitempty,oneof=jwt paseto"`
	AccessTokenDuration time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
}

// MinAmount returns the configured transfer floor, falling back to def when unset.
func (c Config) MinAmount(def decimal.Decimal) decimal.Decimal {
	if c.MinTransferAmount == "" {
		return def
	}

	d, err := decimal.NewFromString(c.MinTransferAmount)
	if err != nil {
		return def
	}

	return d
}

// Load reads configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("LEDGER_BASE_URL", "http://localhost:8000")
	v.SetDefault("REQUEST_TIMEOUT", 10*time.Second)
	v.SetDefault("MIN_TRANSFER_AMOUNT", "5")
	v.SetDefault("RECENT_LIMIT", 3)
	v.SetDefault("REFRESH_INTERVAL", 30*time.Second)
	v.SetDefault("BANK_USERNAME", "")
	v.SetDefault("BANK_PASSWORD", "")
	v.SetDefault("BANK_TOKEN", "")
	v.SetDefault("BANK_OWNER", "")
	v.SetDefault("SNAPSHOT_TTL", 24*time.Hour)
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8000")
	v.SetDefault("TOKEN_KIND", "jwt")
	v.SetDefault("ACCESS_TOKEN_DURATION", 15*time.Minute)

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	err = validator.New().Struct(c)
	if err != nil {
		return c, err
	}

	return c, nil
}
