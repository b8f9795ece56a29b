// Package config loads the settings of the xtree CLI workload.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/benz9527/xtree/lib/xlog"
	"github.com/benz9527/xtree/observability"
)

const (
	configName      = ".xtree"
	configType      = "yaml"
	envPrefix       = "XTREE"
	envKeySeparator = "_"
)

const (
	DefaultTreeCount       = 1024
	DefaultTreeSeed        = 0
	DefaultTreeRemoveRatio = 0.5
	DefaultTreeArenaChunk  = 256
	DefaultLogLevel        = "INFO"
	DefaultLogEncoder      = "plain"
	DefaultMetricsExporter = "none"
	DefaultMetricsInterval = 10 * time.Second
	DefaultOutputPreview   = 8
)

type TreeConfig struct {
	Count       int     `mapstructure:"count"`
	Seed        uint64  `mapstructure:"seed"`
	RemoveRatio float64 `mapstructure:"remove_ratio"`
	Desc        bool    `mapstructure:"desc"`
	BorrowPred  bool    `mapstructure:"borrow_pred"`
	ArenaChunk  uint32  `mapstructure:"arena_chunk"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Encoder string `mapstructure:"encoder"`
}

type MetricsConfig struct {
	Exporter string        `mapstructure:"exporter"`
	Interval time.Duration `mapstructure:"interval"`
}

type OutputConfig struct {
	// Preview is how many DFS and BFS values are printed, 0 disables it.
	Preview int `mapstructure:"preview"`
}

type Config struct {
	Tree    TreeConfig    `mapstructure:"tree"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Output  OutputConfig  `mapstructure:"output"`
}

var (
	ErrInvalidCount       = errors.New("tree count must not be negative")
	ErrInvalidRemoveRatio = errors.New("tree remove ratio must be within [0, 1]")
	ErrInvalidPreview     = errors.New("output preview must not be negative")
)

func (cfg *Config) Validate() error {
	if cfg.Tree.Count < 0 {
		return ErrInvalidCount
	}
	if cfg.Tree.RemoveRatio < 0 || cfg.Tree.RemoveRatio > 1 {
		return ErrInvalidRemoveRatio
	}
	if cfg.Output.Preview < 0 {
		return ErrInvalidPreview
	}
	if _, err := observability.ParseExporterKind(cfg.Metrics.Exporter); err != nil {
		return err
	}
	return nil
}

// LogLevel normalizes the configured level for xlog.
func (cfg *Config) LogLevel() xlog.LogLevel {
	return xlog.LogLevel(strings.ToUpper(strings.TrimSpace(cfg.Log.Level)))
}

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	return Load(New(), configPath)
}

// Load is LoadConfig over a prepared viper instance, e.g. with the
// command flags bound, which take precedence over file and env values.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return unmarshal(v)
}

// New creates a viper instance with the defaults and the XTREE_ env binding.
func New() *viper.Viper {
	v := viper.New()
	applyDefaults(v)
	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("tree.count", DefaultTreeCount)
	v.SetDefault("tree.seed", DefaultTreeSeed)
	v.SetDefault("tree.remove_ratio", DefaultTreeRemoveRatio)
	v.SetDefault("tree.desc", false)
	v.SetDefault("tree.borrow_pred", false)
	v.SetDefault("tree.arena_chunk", DefaultTreeArenaChunk)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.encoder", DefaultLogEncoder)

	v.SetDefault("metrics.exporter", DefaultMetricsExporter)
	v.SetDefault("metrics.interval", DefaultMetricsInterval)

	v.SetDefault("output.preview", DefaultOutputPreview)
}
