package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "SHOP"
	configFileEnvName = "SHOP_CONFIG_FILE"
)

// Flag names bound to config keys.
const (
	ConfigFlag   = "config"
	APIURLFlag   = "api-url"
	LogLevelFlag = "log-level"
)

type API struct {
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	PlaceholderImage string        `mapstructure:"placeholder_image"`
}

type Session struct {
	File string `mapstructure:"file"`
}

type Cache struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	TTL           time.Duration `mapstructure:"ttl"`
}

type TLS struct {
	Enabled  bool   `mapstructure:"enabled"`
	CAFile   string `mapstructure:"ca_file"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

type Events struct {
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topic              string   `mapstructure:"topic"`
	TLS                TLS      `mapstructure:"tls"`
}

type Config struct {
	LogLevel slog.Level `mapstructure:"log_level"`
	API      API        `mapstructure:"api"`
	Session  Session    `mapstructure:"session"`
	Cache    Cache      `mapstructure:"cache"`
	Events   Events     `mapstructure:"events"`
}

// CacheEnabled reports whether a Redis address is configured.
func (c Config) CacheEnabled() bool {
	return c.Cache.RedisAddr != ""
}

// EventsEnabled reports whether client events have somewhere to go.
func (c Config) EventsEnabled() bool {
	return len(c.Events.SeedBrokers) != 0 && len(c.Events.SchemaRegistryURLs) != 0
}

// RegisterFlags adds the persistent config flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(ConfigFlag, "", "config file (env "+configFileEnvName+")")
	fs.String(APIURLFlag, "", "shop API base URL")
	fs.String(LogLevelFlag, "", "log level: debug, info, warn, error")
}

// Load merges defaults, the optional config file, SHOP_* environment
// variables and the flags in fs, in increasing priority.
func Load(fs *pflag.FlagSet) (Config, error) {
	const op = "config.Load"

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return Config{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	if path := configFilepath(fs); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "warn")
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.placeholder_image", "")
	v.SetDefault("session.file", defaultSessionFile())
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("events.seed_brokers", []string{})
	v.SetDefault("events.schema_registry_urls", []string{})
	v.SetDefault("events.topic", "cloudshop-client-events")
	v.SetDefault("events.tls.enabled", false)
	v.SetDefault("events.tls.ca_file", "")
	v.SetDefault("events.tls.cert_file", "")
	v.SetDefault("events.tls.key_file", "")
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	keys := map[string]string{
		APIURLFlag:   "api.base_url",
		LogLevelFlag: "log_level",
	}
	for name, key := range keys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

func configFilepath(fs *pflag.FlagSet) string {
	if fs != nil {
		if f := fs.Lookup(ConfigFlag); f != nil && f.Changed {
			return f.Value.String()
		}
	}
	return os.Getenv(configFileEnvName)
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".cloudshop-session.yaml")
	}
	return filepath.Join(dir, "cloudshop", "session.yaml")
}

func (c Config) validate() error {
	var errs []error
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is empty"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout %s is not positive", c.API.Timeout))
	}
	if c.Session.File == "" {
		errs = append(errs, errors.New("session.file is empty"))
	}
	if len(c.Events.SeedBrokers) != 0 && c.Events.Topic == "" {
		errs = append(errs, errors.New("events.topic is empty"))
	}
	return errors.Join(errs...)
}

// Print writes the loaded config to w. Secrets are masked.
func (c Config) Print(w io.Writer) error {
	c = c.Masked()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"log_level", c.LogLevel.String()},
		{"api.base_url", c.API.BaseURL},
		{"api.timeout", c.API.Timeout.String()},
		{"api.placeholder_image", c.API.PlaceholderImage},
		{"session.file", c.Session.File},
		{"cache.redis_addr", c.Cache.RedisAddr},
		{"cache.redis_password", c.Cache.RedisPassword},
		{"cache.ttl", c.Cache.TTL.String()},
		{"events.seed_brokers", strings.Join(c.Events.SeedBrokers, ",")},
		{"events.schema_registry_urls", strings.Join(c.Events.SchemaRegistryURLs, ",")},
		{"events.topic", c.Events.Topic},
		{"events.tls.enabled", strconv.FormatBool(c.Events.TLS.Enabled)},
		{"events.tls.ca_file", c.Events.TLS.CAFile},
		{"events.tls.cert_file", c.Events.TLS.CertFile},
		{"events.tls.key_file", c.Events.TLS.KeyFile},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Masked returns a copy of c safe to display.
func (c Config) Masked() Config {
	if c.Cache.RedisPassword != "" {
		c.Cache.RedisPassword = "******"
	}
	return c
}
