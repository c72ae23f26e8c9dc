// Package config provides Viper-based configuration for eventctl.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/storage"
)

// EnvPrefix prefixes every environment override, e.g. EVENTCTL_API_BASE_URL.
const EnvPrefix = "EVENTCTL"

// Config represents the complete eventctl configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Tenant  TenantConfig  `mapstructure:"tenant"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig locates the EventCore API.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TenantConfig drives host-based tenant resolution.
type TenantConfig struct {
	RootDomain string `mapstructure:"root_domain"`
	DevTenant  string `mapstructure:"dev_tenant"`
	// Host is the default host to derive the tenant from.
	Host string `mapstructure:"host"`
}

// StorageConfig selects the durable storage backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StorageOptions converts the storage section for storage.Open.
func (c *Config) StorageOptions() (storage.Options, error) {
	driver, err := storage.ParseDriver(c.Storage.Driver)
	if err != nil {
		return storage.Options{}, err
	}
	return storage.Options{Driver: driver, Path: c.Storage.Path, DSN: c.Storage.DSN}, nil
}

// Load reads configuration from file and environment variables. Overrides
// (typically bound command-line flags) are applied last.
func Load(cfgFile string, overrides map[string]any) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".eventctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/eventctl")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:4000/api")
	v.SetDefault("api.timeout", 15*time.Second)

	v.SetDefault("tenant.root_domain", "eventcore.io")
	v.SetDefault("tenant.dev_tenant", "demo")
	v.SetDefault("tenant.host", "")

	v.SetDefault("storage.driver", string(storage.DriverFile))
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.dsn", "")

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url: %q", cfg.API.BaseURL)
	}

	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}

	driver, err := storage.ParseDriver(cfg.Storage.Driver)
	if err != nil {
		return err
	}
	if driver == storage.DriverSQL && cfg.Storage.DSN == "" {
		return fmt.Errorf("storage.dsn is required for the sql driver")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}

	validFormats := map[string]bool{"console": true, "text": true, "json": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		return fmt.Errorf("invalid logging format: %s (must be console or json)", cfg.Logging.Format)
	}

	return nil
}
