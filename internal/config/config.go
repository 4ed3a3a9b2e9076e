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
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
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
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TTL       time.Duration `yaml:"ttl"`
}

// PaymentConfig carries the gateway credentials plus the payment policy
// knobs. Quote margin and token rate are policy, not code; keep them here.
type PaymentConfig struct {
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	CallbackURL string `yaml:"callback_url"` // public base, e.g. https://host/api/users/callback
	PublicKey   string `yaml:"public_key"`   // PEM, the gateway's callback signing key

	TopupCoin        string        `yaml:"topup_coin"`        // default "ltc"
	SubscriptionCoin string        `yaml:"subscription_coin"` // default "bep20_usdt"
	QuoteCurrency    string        `yaml:"quote_currency"`    // default "usdt"
	Confirmations    int           `yaml:"confirmations"`     // default 3
	QuoteMargin      float64       `yaml:"quote_margin"`      // default 0.20
	TokenRate        int64         `yaml:"token_rate"`        // platform tokens per quote-currency unit, default 10
	DefaultTopup     string        `yaml:"default_topup"`     // fallback quote when the rate feed is down
	RequestTimeout   time.Duration `yaml:"request_timeout"`   // outbound gateway call deadline
}

type PostsConfig struct {
	CreateCooldown time.Duration `yaml:"create_cooldown"` // per-user post creation cooldown
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Payment  PaymentConfig  `yaml:"payment"`
	Posts    PostsConfig    `yaml:"posts"`

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
		cfg.Server.Port = 4000
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Auth.TTL <= 0 {
		cfg.Auth.TTL = 24 * time.Hour
	}
	applyPaymentDefaults(&cfg.Payment)
	if cfg.Posts.CreateCooldown <= 0 {
		cfg.Posts.CreateCooldown = 30 * time.Second
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	if cfg.Payment.APIKey == "" {
		return nil, errors.New("payment.api_key is required")
	}
	if cfg.Payment.CallbackURL == "" {
		return nil, errors.New("payment.callback_url is required")
	}
	if cfg.Payment.PublicKey == "" {
		return nil, errors.New("payment.public_key is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyPaymentDefaults(p *PaymentConfig) {
	if p.BaseURL == "" {
		p.BaseURL = "https://api.blockbee.io"
	}
	if p.TopupCoin == "" {
		p.TopupCoin = "ltc"
	}
	if p.SubscriptionCoin == "" {
		p.SubscriptionCoin = "bep20_usdt"
	}
	if p.QuoteCurrency == "" {
		p.QuoteCurrency = "usdt"
	}
	if p.Confirmations <= 0 {
		p.Confirmations = 3
	}
	if p.QuoteMargin <= 0 {
		p.QuoteMargin = 0.20
	}
	if p.TokenRate <= 0 {
		p.TokenRate = 10
	}
	if p.DefaultTopup == "" {
		p.DefaultTopup = "0.03"
	}
	if p.RequestTimeout <= 0 {
		p.RequestTimeout = 10 * time.Second
	}
}
