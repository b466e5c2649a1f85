// Package config loads robofsm settings from defaults, an optional YAML file,
// .env files, ROBOFSM_* environment variables and bound command flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/robofsm"
	"github.com/aretw0/robofsm/internal/logging"
	"github.com/aretw0/robofsm/pkg/domain"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (ROBOFSM_STORE_BACKEND, ...).
const EnvPrefix = "ROBOFSM"

// Selection strategies.
const (
	StrategyFirst    = "first"
	StrategyWeighted = "weighted"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the decoded application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Robot     string          `mapstructure:"robot" validate:"required,len=2,startswith=R"`
	Store     StoreConfig     `mapstructure:"store"`
	Signals   SignalsConfig   `mapstructure:"signals"`
	Selection SelectionConfig `mapstructure:"selection"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	HTTP      HTTPConfig      `mapstructure:"http"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

type StoreConfig struct {
	Backend string      `mapstructure:"backend" validate:"oneof=memory file redis"`
	Dir     string      `mapstructure:"dir" validate:"required_if=Backend file"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" validate:"required"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"gte=0"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// SignalsConfig overrides the outcome events. Empty lists keep the defaults.
type SignalsConfig struct {
	Success []string `mapstructure:"success"`
	Failure []string `mapstructure:"failure"`
}

type SelectionConfig struct {
	Strategy string `mapstructure:"strategy" validate:"oneof=first weighted"`
	Seed     uint64 `mapstructure:"seed"`
}

type MetricsConfig struct {
	// Addr starts the metrics server when set (e.g. ":9090").
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`
}

// New returns a viper instance carrying the defaults and the environment
// binding. Callers bind their flags on it before Load.
func New() *viper.Viper {
	v := viper.New()
	signals := domain.DefaultSignals()

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)
	v.SetDefault("robot", "R1")
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.dir", ".robofsm/sessions")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "robofsm:session:")
	v.SetDefault("store.redis.ttl", "0s")
	v.SetDefault("signals.success", signals.Success)
	v.SetDefault("signals.failure", signals.Failure)
	v.SetDefault("selection.strategy", StrategyFirst)
	v.SetDefault("selection.seed", 1)
	v.SetDefault("metrics.addr", "")
	v.SetDefault("http.addr", ":8080")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and the .env files into v, then decodes
// and validates the result. A missing .env file is not an error; a missing
// explicit config file is.
func Load(v *viper.Viper, file string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env.local", ".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables that are already set.
		_ = godotenv.Load(f)
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := decode(v.AllSettings(), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func decode(settings map[string]any, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			stringToEventsHook(","),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(settings)
}

// stringToEventsHook splits comma separated env values into event lists.
func stringToEventsHook(sep string) mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf([]string{}) {
			return data, nil
		}
		raw := data.(string)
		if raw == "" {
			return []string{}, nil
		}
		var out []string
		for _, p := range strings.Split(raw, sep) {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, strings.ToUpper(p))
			}
		}
		return out, nil
	}
}

// Logger builds the application logger from the log section.
func (c *Config) Logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithOptions(logging.Options{
		Level: level,
		File:  c.Log.File,
		JSON:  c.Log.JSON,
	}), nil
}

// OutcomeSignals returns the configured signals, falling back to the defaults
// for an empty set.
func (c *Config) OutcomeSignals() domain.OutcomeSignals {
	def := domain.DefaultSignals()
	out := domain.OutcomeSignals{Success: c.Signals.Success, Failure: c.Signals.Failure}
	if len(out.Success) == 0 {
		out.Success = def.Success
	}
	if len(out.Failure) == 0 {
		out.Failure = def.Failure
	}
	return out
}

// ErrOverlappingSignals is returned when an event is both a success and a failure signal.
var ErrOverlappingSignals = errors.New("event configured as both success and failure signal")

// MachineOptions translates the engine-related settings into machine options.
func (c *Config) MachineOptions(logger *slog.Logger) ([]robofsm.Option, error) {
	signals := c.OutcomeSignals()
	for _, e := range signals.Success {
		if slices.Contains(signals.Failure, e) {
			return nil, fmt.Errorf("%w: %s", ErrOverlappingSignals, e)
		}
	}

	opts := []robofsm.Option{robofsm.WithSignals(signals)}
	if logger != nil {
		opts = append(opts, robofsm.WithLogger(logger))
	}
	if c.Selection.Strategy == StrategyWeighted {
		opts = append(opts, robofsm.WithWeightedSelection(c.Selection.Seed))
	}
	return opts, nil
}
