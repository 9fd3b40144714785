package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ModeLive = "live"
	ModeDemo = "demo"

	liveBaseURL = "https://login.remita.net"
	demoBaseURL = "https://remitademo.net"
)

type RuntimeConfig struct {
	Dev bool
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
	LockTTL  time.Duration `yaml:"lock_ttl"` // per-reference callback lock
}

// RemitaConfig holds the gateway credentials. Loaded once, read-only for
// the lifetime of the process; never logged or transmitted except inside
// hashes and headers.
type RemitaConfig struct {
	MerchantID    string `yaml:"merchant_id"`
	APIKey        string `yaml:"api_key"`
	ServiceTypeID string `yaml:"servicetype_id"`
	Mode          string `yaml:"mode"` // live | demo
}

// BaseURL selects the live or demo endpoint.
func (c RemitaConfig) BaseURL() string {
	if c.Mode == ModeLive {
		return liveBaseURL
	}
	return demoBaseURL
}

// EnrolmentConfig carries the instance defaults mirrored from the admin
// settings of the enrolment plugin.
type EnrolmentConfig struct {
	DefaultCostMinor int64         `yaml:"default_cost_minor"`
	Currency         string        `yaml:"currency"`
	MaxEnrolled      int           `yaml:"max_enrolled"` // 0 = no cap
	EnrolPeriod      time.Duration `yaml:"enrol_period"` // 0 = unlimited
	DefaultRoleID    int64         `yaml:"default_role_id"`
}

type WebConfig struct {
	Port           int           `yaml:"port"`
	CallbackPath   string        `yaml:"callback_path"`
	AdminAPIKey    string        `yaml:"admin_api_key"`
	GatewayTimeout time.Duration `yaml:"gateway_timeout"`
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Remita    RemitaConfig    `yaml:"remita"`
	Enrolment EnrolmentConfig `yaml:"enrolment"`
	Web       WebConfig       `yaml:"web"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads and validates the YAML config. Unknown keys are
// rejected rather than silently stored.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return cfg, nil
}

// Parse decodes config bytes with strict field checking and applies
// defaults.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.LockTTL <= 0 {
		cfg.Redis.LockTTL = 30 * time.Second
	}
	if cfg.Remita.Mode == "" {
		cfg.Remita.Mode = ModeDemo
	}
	if cfg.Enrolment.Currency == "" {
		cfg.Enrolment.Currency = "NGN"
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Web.CallbackPath == "" {
		cfg.Web.CallbackPath = "/enrol/remita/verify"
	}
	if cfg.Web.GatewayTimeout <= 0 {
		cfg.Web.GatewayTimeout = 15 * time.Second
	}

	// Minimal validation
	if cfg.Remita.Mode != ModeLive && cfg.Remita.Mode != ModeDemo {
		return nil, fmt.Errorf("remita.mode must be %q or %q", ModeLive, ModeDemo)
	}
	if cfg.Remita.MerchantID == "" {
		return nil, errors.New("remita.merchant_id is required")
	}
	if cfg.Remita.APIKey == "" {
		return nil, errors.New("remita.api_key is required")
	}
	if cfg.Remita.ServiceTypeID == "" {
		return nil, errors.New("remita.servicetype_id is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	return &cfg, nil
}
