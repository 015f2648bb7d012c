package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Draw     *DrawConfig     `mapstructure:"draw"`
	Feed     *FeedConfig     `mapstructure:"feed"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
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
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode)
}

// DrawConfig controls the scheduled draw engine.
type DrawConfig struct {
	Interval             time.Duration `mapstructure:"interval"`
	MaxConcurrentRaffles int           `mapstructure:"max_concurrent_raffles"`
	LookupConcurrency    int           `mapstructure:"lookup_concurrency"`
	LookupTimeout        time.Duration `mapstructure:"lookup_timeout"`
	// Seed fixes the random source when non-zero. Only meant for local runs.
	Seed int64 `mapstructure:"seed"`
}

type FeedConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("draw.interval", time.Minute)
	v.SetDefault("draw.max_concurrent_raffles", 4)
	v.SetDefault("draw.lookup_concurrency", 8)
	v.SetDefault("draw.lookup_timeout", 5*time.Second)
	v.SetDefault("feed.enabled", true)
	v.SetDefault("feed.reconnect_delay", 5*time.Second)
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("app")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return v
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func (c *AppConfig) validate() error {
	if c.Draw.Interval <= 0 {
		return fmt.Errorf("draw.interval must be positive, got %v", c.Draw.Interval)
	}
	if c.Draw.MaxConcurrentRaffles <= 0 {
		return fmt.Errorf("draw.max_concurrent_raffles must be positive, got %d", c.Draw.MaxConcurrentRaffles)
	}
	if c.Draw.LookupConcurrency <= 0 {
		return fmt.Errorf("draw.lookup_concurrency must be positive, got %d", c.Draw.LookupConcurrency)
	}

	return nil
}

func Load(configPath string) (*AppConfig, error) {
	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return decode(v)
}

// Watch reloads configPath on every write and hands the new config to onChange.
// Invalid files are reported through onError and the previous config stays in effect.
func Watch(configPath string, onChange func(*AppConfig), onError func(error)) error {
	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		conf, err := decode(v)
		if err != nil {
			onError(fmt.Errorf("reload %s -> %w", e.Name, err))
			return
		}
		onChange(conf)
	})
	v.WatchConfig()

	return nil
}
