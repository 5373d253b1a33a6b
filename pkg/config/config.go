// Package config loads and validates the client's configuration: the
// name-service → name-node endpoint topology plus the ambient logging,
// telemetry, metrics, and client-tuning sections.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is the root configuration for the client.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (GOHDFS_*)
//  2. Configuration file (YAML)
//  3. Default values (lowest priority)
type Config struct {
	// DefaultFS is the default service URI (e.g. "hdfs://user@mycluster"),
	// used to resolve relative and absolute-path inputs. Optional: a
	// caller operating against a single configured nameservice may omit
	// it and pass full URIs everywhere instead.
	DefaultFS string `mapstructure:"default_fs" yaml:"default_fs,omitempty"`

	// Nameservices lists every configured name-service and its candidate
	// name-node endpoints. At least one is required.
	Nameservices []NameserviceConfig `mapstructure:"nameservices" validate:"required,min=1,dive" yaml:"nameservices"`

	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
	Client    ClientConfig    `mapstructure:"client" yaml:"client"`
}

// NameserviceConfig names one name-service and its candidate name-nodes.
// Which node is currently active is not known ahead of time; pkg/ha
// discovers it by trial.
type NameserviceConfig struct {
	Name      string           `mapstructure:"name" validate:"required" yaml:"name"`
	Namenodes []NamenodeConfig `mapstructure:"namenodes" validate:"required,min=1,dive" yaml:"namenodes"`
}

// NamenodeConfig is one candidate name-node within a name-service.
type NamenodeConfig struct {
	Name string `mapstructure:"name" validate:"required" yaml:"name"`

	// RPCAddress is the ClientProtocol RPC endpoint, "host:port".
	RPCAddress string `mapstructure:"rpc_address" validate:"required" yaml:"rpc_address"`

	// ServiceRPCAddress is the separate service-to-service RPC endpoint
	// used for HA health checks and failover coordination in a real
	// cluster. This client only ever dials RPCAddress; ServiceRPCAddress
	// is carried through for completeness and tooling that inspects the
	// topology.
	ServiceRPCAddress string `mapstructure:"service_rpc_address" yaml:"service_rpc_address,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing.
type TelemetryConfig struct {
	Enabled    bool    `mapstructure:"enabled" yaml:"enabled"`
	Endpoint   string  `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure   bool    `mapstructure:"insecure" yaml:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`
}

// MetricsConfig configures the optional Prometheus metrics HTTP server.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// ClientConfig tunes RPC transport behavior.
type ClientConfig struct {
	// User is the effective user presented in the IPC connection
	// context. Defaults to the OS user if empty.
	User string `mapstructure:"user" yaml:"user,omitempty"`

	// DialTimeout is loaded and defaulted (10s) but not read by the RPC
	// path: pkg/rpcengine.Dial is bounded only by the caller's context.
	DialTimeout time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`

	// CallTimeout is loaded and defaulted (60s) but not read by the RPC
	// path: a call is bounded only by its context's deadline, if any.
	CallTimeout time.Duration `mapstructure:"call_timeout" yaml:"call_timeout"`

	// MaxRetries is loaded but not read by pkg/ha, whose attempt budget
	// is always the endpoint count of the active nameservice.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries,omitempty"`
}

// GetDefaultConfig returns a Config with every ambient section set to its
// documented default, but no nameservices (a caller must configure at
// least one before the config validates).
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in zero-valued ambient fields. It never touches
// Nameservices; there is no sensible default endpoint topology.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.SampleRate == 0 {
		cfg.Telemetry.SampleRate = 1.0
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Client.DialTimeout == 0 {
		cfg.Client.DialTimeout = 10 * time.Second
	}
	if cfg.Client.CallTimeout == 0 {
		cfg.Client.CallTimeout = 60 * time.Second
	}
}

var validate = validator.New()

// Validate checks struct tags and cross-field invariants.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(cfg.Nameservices))
	for _, ns := range cfg.Nameservices {
		if _, dup := seen[ns.Name]; dup {
			return fmt.Errorf("config: duplicate nameservice name %q", ns.Name)
		}
		seen[ns.Name] = struct{}{}
	}
	return nil
}

// Load loads configuration from file, environment, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("config: no configuration file found (searched %s)", configPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return &cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("GOHDFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("config: failed to read config file: %w", err)
	}
	return true, nil
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gohdfs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "gohdfs")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// Watcher observes hot-reloadable changes to a nameservice's endpoint
// list. pkg/ha does not subscribe to it; a reloaded endpoint list takes
// effect only where a caller passes it to ha.Conn.SetEndpoints.
type Watcher struct {
	mu       sync.RWMutex
	v        *viper.Viper
	path     string
	onChange []func(*Config)
}

// Watch loads configPath via viper's file watcher and invokes onChange
// (with a freshly reloaded, validated Config) whenever the file changes.
// Only the nameservice endpoint list is expected to change at runtime;
// callers should treat other fields as fixed for the process lifetime.
func Watch(configPath string, onChange func(*Config)) (*Watcher, error) {
	v := viper.New()
	setupViper(v, configPath)
	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	w := &Watcher{v: v, path: configPath}
	if onChange != nil {
		w.onChange = append(w.onChange, onChange)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		var cfg Config
		if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
			return
		}
		ApplyDefaults(&cfg)
		if err := Validate(&cfg); err != nil {
			return
		}
		w.mu.RLock()
		defer w.mu.RUnlock()
		for _, fn := range w.onChange {
			fn(&cfg)
		}
	})
	v.WatchConfig()
	return w, nil
}
