// Package config defines mediactl's runtime configuration: a single
// Config struct of plain fields grouped by concern, with a
// package-level atomic holder so goroutines can read a consistent
// snapshot without locking, and a viper overlay that lets a config file
// or environment variables override the computed defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/spf13/viper"

	"github.com/prxssh/mediactl/internal/engine"
)

// Config defines behavior and resource limits for a mediactl instance.
type Config struct {
	// ========== Player connection ==========

	// PlayerBaseURL is the base URL of the media player's control
	// interface (e.g. "http://localhost:8080").
	PlayerBaseURL string

	// PlayerPassword authenticates against the player's control
	// interface. Credential handling beyond carrying this field through
	// to the HTTP client is out of scope.
	PlayerPassword string

	// RequestTimeout bounds a single player HTTP request.
	RequestTimeout time.Duration

	// DialTimeout bounds establishing the TCP connection to the player.
	DialTimeout time.Duration

	// ========== Driver cadence ==========

	// PollInterval is how often the driver queries playback status
	// absent a reason to poll sooner.
	PollInterval time.Duration

	// LookaheadCount is how many items the driver keeps peeked ahead of
	// the playback cursor.
	LookaheadCount int

	// MaxHistoryCount bounds how many played items the convergence
	// controller keeps before the comparison start.
	MaxHistoryCount uint32

	// ========== Selection engine ==========

	// PeekEffortBudget is loaded from config but is not passed to the
	// engine: Peek always uses its own fixed budget of 4096 walks.
	PeekEffortBudget uint64

	// DefaultOrderType is loaded from config but is not passed to the
	// engine: new buckets and joints are always created InOrder.
	DefaultOrderType engine.OrderKind

	// ========== Persistence ==========

	// NetworkFile is where the selection engine's command log is
	// loaded from and saved to.
	NetworkFile string

	// PersistFormat selects the on-disk command-log encoding: "text" or
	// "json".
	PersistFormat string

	// ========== Logging ==========

	LogLevel  slog.Level
	LogFormat string // "pretty" | "json"

	// ========== Metrics ==========

	// MetricsEnabled toggles the Prometheus metrics endpoint.
	MetricsEnabled bool

	// MetricsBindAddr is the HTTP address metrics are served on (e.g.
	// ":9090").
	MetricsBindAddr string
}

var current atomic.Pointer[Config]

// Load returns the process-wide Config. Init must have run first.
func Load() *Config {
	return current.Load()
}

// Set installs cfg as the process-wide Config, replacing whatever was
// there before. Mainly useful in tests.
func Set(cfg *Config) {
	current.Store(cfg)
}

// Init computes defaults, applies any overlay found via viper (config
// file + MEDIACTL_-prefixed environment variables), and installs the
// result as the process-wide Config.
func Init(configFile string) (*Config, error) {
	cfg, err := defaultConfig()
	if err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}

	if err := overlayFromViper(&cfg, configFile); err != nil {
		return nil, fmt.Errorf("config: overlay: %w", err)
	}

	current.Store(&cfg)
	return &cfg, nil
}

func defaultConfig() (Config, error) {
	networkFile, err := defaultNetworkFile()
	if err != nil {
		return Config{}, err
	}

	return Config{
		PlayerBaseURL:    "http://localhost:8080",
		PlayerPassword:   "",
		RequestTimeout:   10 * time.Second,
		DialTimeout:      5 * time.Second,
		PollInterval:     2 * time.Second,
		LookaheadCount:   3,
		MaxHistoryCount:  20,
		PeekEffortBudget: 4096,
		DefaultOrderType: engine.InOrder,
		NetworkFile:      networkFile,
		PersistFormat:    "text",
		LogLevel:         slog.LevelInfo,
		LogFormat:        "pretty",
		MetricsEnabled:   false,
		MetricsBindAddr:  ":9090",
	}, nil
}

// overlayFromViper layers a config file (if configFile is non-empty
// and exists) and MEDIACTL_-prefixed environment variables on top of
// cfg's already-computed defaults, mutating only the keys actually
// set by one of those sources.
func overlayFromViper(cfg *Config, configFile string) error {
	v := viper.New()
	v.SetEnvPrefix("MEDIACTL")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return err
			}
		}
	}

	bindString(v, "player_base_url", &cfg.PlayerBaseURL)
	bindString(v, "player_password", &cfg.PlayerPassword)
	bindDuration(v, "request_timeout", &cfg.RequestTimeout)
	bindDuration(v, "dial_timeout", &cfg.DialTimeout)
	bindDuration(v, "poll_interval", &cfg.PollInterval)
	bindInt(v, "lookahead_count", &cfg.LookaheadCount)
	bindUint32(v, "max_history_count", &cfg.MaxHistoryCount)
	bindUint64(v, "peek_effort_budget", &cfg.PeekEffortBudget)
	bindString(v, "network_file", &cfg.NetworkFile)
	bindString(v, "persist_format", &cfg.PersistFormat)
	bindString(v, "log_format", &cfg.LogFormat)
	bindBool(v, "metrics_enabled", &cfg.MetricsEnabled)
	bindString(v, "metrics_bind_addr", &cfg.MetricsBindAddr)

	if v.IsSet("default_order_type") {
		kind, err := engine.ParseOrderKind(v.GetString("default_order_type"))
		if err != nil {
			return fmt.Errorf("default_order_type: %w", err)
		}
		cfg.DefaultOrderType = kind
	}

	if v.IsSet("log_level") {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
		cfg.LogLevel = lvl
	}

	return nil
}

func bindString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func bindInt(v *viper.Viper, key string, dst *int) {
	if v.IsSet(key) {
		*dst = v.GetInt(key)
	}
}

func bindUint32(v *viper.Viper, key string, dst *uint32) {
	if v.IsSet(key) {
		*dst = uint32(v.GetUint(key))
	}
}

func bindUint64(v *viper.Viper, key string, dst *uint64) {
	if v.IsSet(key) {
		*dst = uint64(v.GetInt64(key))
	}
}

func bindBool(v *viper.Viper, key string, dst *bool) {
	if v.IsSet(key) {
		*dst = v.GetBool(key)
	}
}

func bindDuration(v *viper.Viper, key string, dst *time.Duration) {
	if v.IsSet(key) {
		*dst = v.GetDuration(key)
	}
}

func defaultNetworkFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		if cwd, err := os.Getwd(); err == nil {
			return filepath.Join(cwd, "mediactl-network.txt"), nil
		}
		return "./mediactl-network.txt", nil
	}

	switch runtime.GOOS {
	case "windows", "darwin":
		return filepath.Join(home, "Library", "Application Support", "mediactl", "network.txt"), nil
	default: // linux, bsd, etc.
		return filepath.Join(home, ".local", "share", "mediactl", "network.txt"), nil
	}
}
