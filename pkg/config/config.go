// Package config handles loading and managing esgscope configuration.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/esgscope/esgscope/pkg/scoring"
)

// EnvPrefix prefixes environment overrides, e.g. ESGSCOPE_LEDGER_DSN.
const EnvPrefix = "ESGSCOPE"

// Config is the top-level configuration for esgscope.
type Config struct {
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Ledger  LedgerConfig  `yaml:"ledger" mapstructure:"ledger"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
}

// ScoringConfig controls scoring behavior. Weights are keyed by component
// and then by parameter, for example weights.energy.cap.
type ScoringConfig struct {
	Weights map[string]map[string]float64 `yaml:"weights" mapstructure:"weights"`
}

// StorageConfig selects where raw and scored documents are kept.
type StorageConfig struct {
	Backend  string `yaml:"backend" mapstructure:"backend"` // local, s3 or gcs
	BaseDir  string `yaml:"base_dir" mapstructure:"base_dir"`
	Bucket   string `yaml:"bucket" mapstructure:"bucket"`
	Region   string `yaml:"region" mapstructure:"region"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"` // S3-compatible endpoint, e.g. MinIO
	Prefix   string `yaml:"prefix" mapstructure:"prefix"`
}

// LedgerConfig configures the score history database.
type LedgerConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // sqlite or postgres
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr" mapstructure:"addr"`
	CacheSize      int      `yaml:"cache_size" mapstructure:"cache_size"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Weights: map[string]map[string]float64{},
		},
		Storage: StorageConfig{
			Backend: "local",
			BaseDir: ReportDir(),
		},
		Ledger: LedgerConfig{
			Driver: "sqlite",
			DSN:    filepath.Join(CacheDir(), "ledger.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Addr:      ":8080",
			CacheSize: 256,
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, eris.Wrap(err, "config: read file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, eris.Wrap(err, "config: parse file")
	}

	return cfg, nil
}

// LoadWithEnv reads the config file at path, if any, and layers ESGSCOPE_*
// environment variables on top. An empty path skips the file.
func LoadWithEnv(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.base_dir", d.Storage.BaseDir)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.prefix", "")
	v.SetDefault("ledger.driver", d.Ledger.Driver)
	v.SetDefault("ledger.dsn", d.Ledger.DSN)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.cache_size", d.Server.CacheSize)
	v.SetDefault("server.allowed_origins", []string{})

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
				return nil, eris.Wrap(err, "config: read file")
			}
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	if cfg.Scoring.Weights == nil {
		cfg.Scoring.Weights = map[string]map[string]float64{}
	}

	return cfg, nil
}

// Overrides flattens the weight table into "component.parameter" keys.
func (c ScoringConfig) Overrides() map[string]float64 {
	out := make(map[string]float64)
	for component, params := range c.Weights {
		for param, v := range params {
			out[component+"."+param] = v
		}
	}
	return out
}

// ScoringWeights returns the default weights with the configured overrides applied.
func (c *Config) ScoringWeights() (scoring.Weights, error) {
	w := scoring.Defaults()
	if err := w.Apply(c.Scoring.Overrides()); err != nil {
		return w, eris.Wrapf(err, "config: scoring weights (valid keys: %s)", strings.Join(scoring.OverrideKeys(), ", "))
	}
	return w, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	var problems []string
	switch c.Storage.Backend {
	case "local", "s3", "gcs":
	default:
		problems = append(problems, "storage.backend must be local, s3 or gcs")
	}
	if (c.Storage.Backend == "s3" || c.Storage.Backend == "gcs") && c.Storage.Bucket == "" {
		problems = append(problems, "storage.bucket is required for "+c.Storage.Backend)
	}
	switch c.Ledger.Driver {
	case "sqlite", "postgres":
	default:
		problems = append(problems, "ledger.driver must be sqlite or postgres")
	}
	if c.Ledger.DSN == "" {
		problems = append(problems, "ledger.dsn is required")
	}
	if c.Server.CacheSize < 0 {
		problems = append(problems, "server.cache_size must not be negative")
	}
	if _, err := c.ScoringWeights(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// FindConfigFile looks for .esgscope/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".esgscope", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns ~/.cache/esgscope, or a directory under the system temp
// dir when HOME is unavailable.
func CacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "esgscope")
}

// ReportDir returns the default local document storage directory.
func ReportDir() string {
	return filepath.Join(CacheDir(), "reports")
}
