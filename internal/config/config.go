// Package config loads peplab settings from defaults, an optional YAML file
// and PEPLAB_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override (PEPLAB_BACKEND_URL, ...).
const EnvPrefix = "PEPLAB"

// PathEnv names the variable holding an explicit config file path.
const PathEnv = "PEPLAB_CONFIG_PATH"

// Config holds application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Backend BackendConfig `mapstructure:"backend" yaml:"backend"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Redis   RedisConfig   `mapstructure:"redis" yaml:"redis"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// BackendConfig points at the backend API probed before navigation.
type BackendConfig struct {
	URL      string        `mapstructure:"url" yaml:"url"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// SessionConfig selects where sessions live.
type SessionConfig struct {
	Store        string `mapstructure:"store" yaml:"store"` // memory | redis
	HistoryLimit int    `mapstructure:"history_limit" yaml:"history_limit"`
	Cookie       string `mapstructure:"cookie" yaml:"cookie"`
}

// RedisConfig is used when session.store is "redis".
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password,omitempty"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Lock     bool          `mapstructure:"lock" yaml:"lock"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		Server:  ServerConfig{Addr: ":8080"},
		Backend: BackendConfig{URL: "http://localhost:8000", Timeout: 3 * time.Second},
		Session: SessionConfig{Store: "memory", HistoryLimit: 512, Cookie: "peplab_session"},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "peplab:session:",
			TTL:    24 * time.Hour,
			Lock:   true,
		},
		Log:     LogConfig{Level: "info"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads configuration. path may be empty, in which case PEPLAB_CONFIG_PATH
// or ./peplab.yaml is used when present.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigType("yaml")
	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("peplab")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path must exist; the implicit one is optional.
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := decode(v.AllSettings())
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func decode(settings map[string]any) (Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(settings); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every field of d so environment overrides apply to it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("backend.url", d.Backend.URL)
	v.SetDefault("backend.timeout", d.Backend.Timeout.String())
	v.SetDefault("backend.cache_ttl", d.Backend.CacheTTL.String())
	v.SetDefault("session.store", d.Session.Store)
	v.SetDefault("session.history_limit", d.Session.HistoryLimit)
	v.SetDefault("session.cookie", d.Session.Cookie)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.prefix", d.Redis.Prefix)
	v.SetDefault("redis.ttl", d.Redis.TTL.String())
	v.SetDefault("redis.lock", d.Redis.Lock)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	switch c.Session.Store {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("session.store must be memory or redis, got %q", c.Session.Store))
	}
	if c.Session.HistoryLimit < 0 {
		errs = append(errs, errors.New("session.history_limit must not be negative"))
	}
	if c.Backend.URL == "" {
		errs = append(errs, errors.New("backend.url is required"))
	}
	if c.Backend.Timeout <= 0 {
		errs = append(errs, errors.New("backend.timeout must be positive"))
	}
	if c.Backend.CacheTTL < 0 {
		errs = append(errs, errors.New("backend.cache_ttl must not be negative"))
	}
	if c.Session.Cookie == "" {
		errs = append(errs, errors.New("session.cookie is required"))
	}
	return errors.Join(errs...)
}

// YAML renders the effective configuration with the password redacted.
func (c Config) YAML() ([]byte, error) {
	if c.Redis.Password != "" {
		c.Redis.Password = "***"
	}
	return yaml.Marshal(durationsAsText(c))
}

// yamlView mirrors Config with durations as text so the dump can be read back.
type yamlView struct {
	Server  ServerConfig `yaml:"server"`
	Backend struct {
		URL      string `yaml:"url"`
		Timeout  string `yaml:"timeout"`
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"backend"`
	Session SessionConfig `yaml:"session"`
	Redis   struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password,omitempty"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
		TTL      string `yaml:"ttl"`
		Lock     bool   `yaml:"lock"`
	} `yaml:"redis"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

func durationsAsText(c Config) yamlView {
	var y yamlView
	y.Server = c.Server
	y.Backend.URL = c.Backend.URL
	y.Backend.Timeout = c.Backend.Timeout.String()
	y.Backend.CacheTTL = c.Backend.CacheTTL.String()
	y.Session = c.Session
	y.Redis.Addr = c.Redis.Addr
	y.Redis.Password = c.Redis.Password
	y.Redis.DB = c.Redis.DB
	y.Redis.Prefix = c.Redis.Prefix
	y.Redis.TTL = c.Redis.TTL.String()
	y.Redis.Lock = c.Redis.Lock
	y.Log = c.Log
	y.Metrics = c.Metrics
	return y
}
