package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Notify   *NotifyConfig   `mapstructure:"notify"`

	mu      sync.RWMutex
	matcher MatcherConfig
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	Timezone           string   `mapstructure:"timezone"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// MatcherConfig holds the fuzzy-matching knobs. The thresholds are empirical
// values carried over from production traffic; they are configuration, not
// constants, so they can be tuned without touching the matching code.
type MatcherConfig struct {
	StockThreshold   int `mapstructure:"stock_threshold"`
	CatalogThreshold int `mapstructure:"catalog_threshold"`
	MinFragmentLen   int `mapstructure:"min_fragment_length"`
}

type NotifyConfig struct {
	MaxAttempts      int `mapstructure:"max_attempts"`
	InitialBackoffMs int `mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int `mapstructure:"max_backoff_ms"`
	RatePerSecond    int `mapstructure:"rate_per_second"`
	RateBurst        int `mapstructure:"rate_burst"`
}

// Matcher returns a snapshot of the current matcher configuration.
// The config file is watched, so callers must not cache the result.
func (c *AppConfig) Matcher() MatcherConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.matcher
}

func (c *AppConfig) setMatcher(m MatcherConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.matcher = m
}

func Load(configFile string) (*AppConfig, error) {
	viper.SetConfigFile(configFile)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	var matcher MatcherConfig
	if err := viper.UnmarshalKey("matcher", &matcher); err != nil {
		return nil, fmt.Errorf("viper.UnmarshalKey -> %w", err)
	}
	conf.setMatcher(matcher)

	// Reload matcher thresholds on config file changes so they can be tuned
	// without a restart. Everything else requires a restart to change.
	viper.OnConfigChange(func(e fsnotify.Event) {
		var m MatcherConfig
		if err := viper.UnmarshalKey("matcher", &m); err != nil {
			zap.L().Warn("failed to reload matcher config", zap.Error(err))

			return
		}

		conf.setMatcher(m)
		zap.L().Info("matcher config reloaded",
			zap.Int("stock_threshold", m.StockThreshold),
			zap.Int("catalog_threshold", m.CatalogThreshold),
		)
	})
	viper.WatchConfig()

	return conf, nil
}
