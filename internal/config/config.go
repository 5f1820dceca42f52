// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AuthConfig struct {
	// JWTSecret verifies the identity provider's HS256 bearer tokens.
	JWTSecret string `yaml:"jwt_secret"`
}

type MailConfig struct {
	APIKey string `yaml:"api_key"` // Resend API key; empty disables sending
	From   string `yaml:"from"`
}

type AffiliateConfig struct {
	PartnerStackKey string `yaml:"partnerstack_key"` // empty disables the sync
	BaseURL         string `yaml:"base_url"`
}

type SchedulerConfig struct {
	ConfirmInterval time.Duration `yaml:"confirm_interval"`
	SyncInterval    time.Duration `yaml:"sync_interval"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Mail      MailConfig      `yaml:"mail"`
	Affiliate AffiliateConfig `yaml:"affiliate"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Mail.From == "" {
		cfg.Mail.From = "Incentoro <notifications@incentoro.com>"
	}
	if cfg.Affiliate.BaseURL == "" {
		cfg.Affiliate.BaseURL = "https://api.partnerstack.com/v1"
	}
	if cfg.Scheduler.ConfirmInterval <= 0 {
		cfg.Scheduler.ConfirmInterval = time.Hour
	}
	if cfg.Scheduler.SyncInterval <= 0 {
		cfg.Scheduler.SyncInterval = 6 * time.Hour
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Auth.JWTSecret == "" && !dev {
		return nil, errors.New("auth.jwt_secret is required outside dev mode")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
