package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the prefix of environment variables overriding file values.
const DefaultEnvPrefix = "KVCACHE_"

const (
	LogTextFormat = "text"
	LogJSONFormat = "json"
)

var ErrConfiguration = errors.New("configuration error")

// Config is the complete application configuration.
type Config struct {
	Cache    CacheConfig    `koanf:"cache"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Server   ServerConfig   `koanf:"server"`
	Auth     AuthConfig     `koanf:"auth"`
}

// CacheConfig controls the cache engine.
type CacheConfig struct {
	// Disabled turns every cache operation into a no-op. No storage is touched.
	Disabled bool `koanf:"disabled"`
	// SweepInterval is the period between expiry sweeps, in seconds.
	SweepInterval int `koanf:"sweep_interval" validate:"gte=1"`
	// DefaultTTL is the time to live applied by Put, in seconds.
	DefaultTTL int `koanf:"default_ttl" validate:"gte=1"`
}

func (c CacheConfig) SweepPeriod() time.Duration {
	return time.Duration(c.SweepInterval) * time.Second
}

func (c CacheConfig) DefaultTTLDuration() time.Duration {
	return time.Duration(c.DefaultTTL) * time.Second
}

type DatabaseConfig struct {
	// Path of the SQLite file, or ":memory:".
	Path string `koanf:"path" validate:"required"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

type ServerConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig configures JWT protection of the HTTP API. An empty secret disables it.
type AuthConfig struct {
	Secret   string        `koanf:"secret"`
	Issuer   string        `koanf:"issuer" validate:"required"`
	Audience string        `koanf:"audience" validate:"required"`
	TokenTTL time.Duration `koanf:"token_ttl" validate:"gt=0"`
}

func (a AuthConfig) Enabled() bool { return len(a.Secret) != 0 }

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Disabled:      false,
			SweepInterval: 5,
			DefaultTTL:    300,
		},
		Database: DatabaseConfig{Path: "kvcache.db"},
		Log:      LogConfig{Level: "info", Format: LogJSONFormat},
		Server:   ServerConfig{Address: ":8008"},
		Auth: AuthConfig{
			Issuer:   "kvcache",
			Audience: "kvcache-clients",
			TokenTTL: 24 * time.Hour,
		},
	}
}

// Load merges the defaults, the optional yaml file at configFile and the environment
// variables starting with envPrefix, in that order, and validates the result.
func Load(configFile, envPrefix string) (*Config, error) {
	parser := koanf.New(".")

	defaults := Default()
	if err := parser.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("%w: failed to load defaults: %w", ErrConfiguration, err)
	}

	if len(configFile) != 0 {
		raw, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read %s: %w", ErrConfiguration, configFile, err)
		}

		if err := parser.Load(rawbytes.Provider(raw), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrConfiguration, configFile, err)
		}
	}

	if len(envPrefix) != 0 {
		if err := parser.Load(env.Provider(".", env.Opt{
			Prefix:        envPrefix,
			TransformFunc: envKeyTransformer(envPrefix),
		}), nil); err != nil {
			return nil, fmt.Errorf("%w: failed to parse environment variables: %w", ErrConfiguration, err)
		}
	}

	var conf Config
	if err := parser.UnmarshalWithConf("", &conf, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			Result:           &conf,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

// Validate checks the constraints declared in the struct tags.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return nil
}

// KVCACHE_CACHE_SWEEP__INTERVAL becomes cache.sweep_interval: a single underscore
// separates levels, a double one is a literal underscore.
func envKeyTransformer(prefix string) func(string, string) (string, any) {
	return func(key, val string) (string, any) {
		tmp := strings.ToLower(strings.TrimPrefix(key, prefix))
		tmp = strings.ReplaceAll(tmp, "__", `\:\`)
		tmp = strings.ReplaceAll(tmp, "_", ".")

		return strings.ReplaceAll(tmp, `\:\`, "_"), val
	}
}
