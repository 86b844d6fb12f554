// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token" envconfig:"BOT_TOKEN"`
	Username string  `yaml:"username" envconfig:"BOT_USERNAME"`
	Workers  int     `yaml:"workers" envconfig:"BOT_WORKERS"` // polling workers
	AdminIDs []int64 `yaml:"admin_ids" envconfig:"ADMIN_IDS"`
	ShopURL  string  `yaml:"shop_url" envconfig:"SHOP_URL"`
}

type BroadcastConfig struct {
	ChannelID     int64 `yaml:"channel_id" envconfig:"BROADCAST_CHANNEL_ID"`
	TrackGroups   bool  `yaml:"track_groups" envconfig:"BROADCAST_TRACK_GROUPS"`
	Workers       int   `yaml:"workers" envconfig:"BROADCAST_WORKERS"`
	RatePerSecond int   `yaml:"rate_per_second" envconfig:"BROADCAST_RATE_PER_SECOND"` // 0 disables throttling
}

type CatalogConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"BACKEND_URL"`
	Timeout time.Duration `yaml:"timeout" envconfig:"CATALOG_TIMEOUT"`
}

type ImageHostConfig struct {
	APIKey  string        `yaml:"api_key" envconfig:"IMGBB_API_KEY"`
	BaseURL string        `yaml:"base_url" envconfig:"IMGBB_BASE_URL"`
	Timeout time.Duration `yaml:"timeout" envconfig:"IMGBB_TIMEOUT"`
}

type DatabaseConfig struct {
	URL string `yaml:"url" envconfig:"DATABASE_URL"`
}

type RedisConfig struct {
	URL      string        `yaml:"url" envconfig:"REDIS_URL"`
	Password string        `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" envconfig:"REDIS_DB"`
	TTL      time.Duration `yaml:"ttl" envconfig:"REDIS_TTL"`
}

type HTTPConfig struct {
	Port int `yaml:"port" envconfig:"PORT"`
}

type LogConfig struct {
	Level    string `yaml:"level" envconfig:"LOG_LEVEL"`       // trace|debug|info|warn|error
	Format   string `yaml:"format" envconfig:"LOG_FORMAT"`     // json|console
	Sampling bool   `yaml:"sampling" envconfig:"LOG_SAMPLING"` // enable sampling in prod
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	ImageHost ImageHostConfig `yaml:"image_host"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	Lang      string          `yaml:"lang" envconfig:"LANG_CODE"`

	Runtime RuntimeConfig `yaml:"-" ignored:"true"`
}

// LoadConfig reads the optional YAML file at path, then overlays environment
// variables (a .env file in the working directory is loaded first).
func LoadConfig(path string, dev bool) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// environment only
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// MaxBroadcastRate caps broadcast.rate_per_second. Telegram itself allows
// about 30 messages per second per bot.
const MaxBroadcastRate = 1000

func (c *Config) applyDefaults() {
	if c.Bot.Workers <= 0 {
		c.Bot.Workers = 8
	}
	if c.Broadcast.Workers <= 0 {
		c.Broadcast.Workers = 4
	}
	if c.Broadcast.RatePerSecond < 0 {
		c.Broadcast.RatePerSecond = 0
	}
	if c.Broadcast.RatePerSecond > MaxBroadcastRate {
		c.Broadcast.RatePerSecond = MaxBroadcastRate
	}
	if c.Catalog.Timeout <= 0 {
		c.Catalog.Timeout = 15 * time.Second
	}
	c.Catalog.BaseURL = strings.TrimRight(c.Catalog.BaseURL, "/")
	if c.ImageHost.BaseURL == "" {
		c.ImageHost.BaseURL = "https://api.imgbb.com/1/upload"
	}
	if c.ImageHost.Timeout <= 0 {
		c.ImageHost.Timeout = 30 * time.Second
	}
	c.Redis.TTL = normalizeTTL(c.Redis.TTL)
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Lang == "" {
		c.Lang = "en"
	}
}

// Validate checks the values the bot cannot start without.
func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return errors.New("bot.token is required")
	}
	if c.Catalog.BaseURL == "" {
		return errors.New("catalog.base_url is required")
	}
	if c.ImageHost.APIKey == "" {
		return errors.New("image_host.api_key is required")
	}
	if len(c.Bot.AdminIDs) == 0 {
		return errors.New("bot.admin_ids must list at least one operator")
	}
	return nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Minute
	}
	return d
}
