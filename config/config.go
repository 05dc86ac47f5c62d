package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Stock      StockConfig      `mapstructure:"stock"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics"`
	Alert      AlertConfig      `mapstructure:"alert"`
	Connection ConnectionConfig `mapstructure:"connection"`
	Reorder    ReorderConfig    `mapstructure:"reorder"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	LogLevel string `mapstructure:"log_level"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	// Token is the static bearer token checked on protected endpoints.
	// Empty disables the check (development mode).
	Token string `mapstructure:"token"`
}

type StockConfig struct {
	// EmergencyThreshold is the low-stock cutoff used when a product has no
	// min_stock configured.
	EmergencyThreshold int `mapstructure:"emergency_threshold"`
}

type AnalyticsConfig struct {
	// CacheTTL nominally "5 menit"; the historical value is 500s (~8.3 min)
	// and is kept as-is for compatibility with the old dashboard behavior.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// UpstreamURL, when set, makes the analytics cache read from the remote
	// PSB backend instead of the local database.
	UpstreamURL    string        `mapstructure:"upstream_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type AlertConfig struct {
	DedupWindow     time.Duration `mapstructure:"dedup_window"`
	MonitorInterval time.Duration `mapstructure:"monitor_interval"`
}

type ConnectionConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

type ReorderConfig struct {
	PeriodDays        int     `mapstructure:"period_days"`
	LeadTimeDays      int     `mapstructure:"lead_time_days"`
	SafetyCoefficient float64 `mapstructure:"safety_coefficient"`
}

// Load reads the YAML config at path. A missing file is not an error: the
// defaults are returned so the binary runs out of the box.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "simas")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.path", "./simas.db")
	v.SetDefault("stock.emergency_threshold", 5)
	v.SetDefault("analytics.cache_ttl", 500*time.Second)
	v.SetDefault("analytics.request_timeout", 15*time.Second)
	v.SetDefault("alert.dedup_window", 600*time.Second)
	v.SetDefault("alert.monitor_interval", 5*time.Minute)
	v.SetDefault("connection.debounce", 100*time.Millisecond)
	v.SetDefault("reorder.period_days", 90)
	v.SetDefault("reorder.lead_time_days", 7)
	v.SetDefault("reorder.safety_coefficient", 1.5)
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Stock.EmergencyThreshold < 0 {
		return fmt.Errorf("stock.emergency_threshold must not be negative")
	}
	if c.Analytics.CacheTTL <= 0 {
		return fmt.Errorf("analytics.cache_ttl must be positive")
	}
	if c.Alert.DedupWindow <= 0 {
		return fmt.Errorf("alert.dedup_window must be positive")
	}
	if c.Reorder.SafetyCoefficient <= 0 {
		return fmt.Errorf("reorder.safety_coefficient must be positive")
	}
	return nil
}
