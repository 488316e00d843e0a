// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Service configuration: defaults, optional YAML file, DISPATCH_* env overrides.

package control

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-dispatch/api"
)

// EnvPrefix prefixes every environment override, e.g. DISPATCH_DISPATCH_MAX_BATCH.
const EnvPrefix = "DISPATCH"

// Config holds all service configuration.
type Config struct {
	Queue    QueueConfig    `mapstructure:"queue" yaml:"queue"`
	Dispatch DispatchConfig `mapstructure:"dispatch" yaml:"dispatch"`
	Wait     WaitConfig     `mapstructure:"wait" yaml:"wait"`
	Worker   WorkerConfig   `mapstructure:"worker" yaml:"worker"`
	Session  SessionConfig  `mapstructure:"session" yaml:"session"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Debug    DebugConfig    `mapstructure:"debug" yaml:"debug"`
}

// QueueConfig sizes the two rings. A ring holds capacity-1 items.
type QueueConfig struct {
	WorkCapacity   int `mapstructure:"work_capacity" yaml:"work_capacity" validate:"gte=2"`
	ResultCapacity int `mapstructure:"result_capacity" yaml:"result_capacity" validate:"gte=2"`
}

// DispatchConfig bounds a single submission.
type DispatchConfig struct {
	MaxBatch int `mapstructure:"max_batch" yaml:"max_batch" validate:"gt=0"`
}

// WaitConfig tunes the full/empty wait strategy.
type WaitConfig struct {
	Spin    int           `mapstructure:"spin" yaml:"spin" validate:"gte=0"`
	Yield   int           `mapstructure:"yield" yaml:"yield" validate:"gte=0"`
	MaxPark time.Duration `mapstructure:"max_park" yaml:"max_park" validate:"gte=0"`
}

// WorkerConfig controls the worker goroutine. CPU -1 leaves it unpinned.
type WorkerConfig struct {
	CPU int `mapstructure:"cpu" yaml:"cpu" validate:"gte=-1"`
}

// SessionConfig controls the interactive session.
type SessionConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout" validate:"gte=0"`
}

// LogConfig selects slog level and handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
}

// DebugConfig enables the read-only HTTP debug surface when Addr is set.
type DebugConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
}

var defaults = map[string]any{
	"queue.work_capacity":   256,
	"queue.result_capacity": 65536 * 2,
	"dispatch.max_batch":    100000,
	"wait.spin":             128,
	"wait.yield":            64,
	"wait.max_park":         time.Millisecond,
	"worker.cpu":            -1,
	"session.idle_timeout":  60 * time.Second,
	"log.level":             "info",
	"log.format":            "text",
	"debug.addr":            "",
}

var validate = validator.New()

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	cfg, err := load(newViper())
	if err != nil {
		panic(fmt.Sprintf("control: invalid built-in defaults: %v", err))
	}
	return cfg
}

// LoadConfig reads defaults, then path (if non-empty), then environment.
func LoadConfig(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return load(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

func load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return api.NewError(api.ErrCodeInvalidArgument, fmt.Errorf("%w: %s failed %q", api.ErrInvalidConfig, verrs[0].Namespace(), verrs[0].Tag())).
				WithContext("violations", len(verrs))
		}
		return fmt.Errorf("%w: %v", api.ErrInvalidConfig, err)
	}
	return nil
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return out, nil
}
