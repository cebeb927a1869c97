package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/viper"

	"github.com/NahomAnteneh/scm-predictor/core"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerPort      int           `mapstructure:"server_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// TLS configuration
	TLSCertPath string `mapstructure:"tls_cert_path"`
	TLSKeyPath  string `mapstructure:"tls_key_path"`

	// Model artifact configuration. Relative paths resolve against ModelBaseDir.
	ModelBaseDir     string `mapstructure:"model_base_dir"`
	ModelPath        string `mapstructure:"model_path"`
	FeatureNamesPath string `mapstructure:"feature_names_path"`

	// Assessment history; disabled when DatabaseDriver is empty
	DatabaseDriver string `mapstructure:"database_driver"`
	DatabaseURL    string `mapstructure:"database_url"`

	// Logging configuration
	LogLevel       string `mapstructure:"log_level"`
	LogDevelopment bool   `mapstructure:"log_development"`

	// CORS configuration for the JSON API
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Supported history store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// IsTLSEnabled returns true if TLS is enabled
func (c *Config) IsTLSEnabled() bool {
	return c.TLSCertPath != "" && c.TLSKeyPath != ""
}

// IsHistoryEnabled returns true if assessments should be recorded
func (c *Config) IsHistoryEnabled() bool {
	return c.DatabaseDriver != ""
}

// ResolvedModelPath returns the artifact path anchored at ModelBaseDir
func (c *Config) ResolvedModelPath() string {
	return c.resolve(c.ModelPath)
}

// ResolvedFeatureNamesPath returns the feature-name path anchored at ModelBaseDir, or "" if unset
func (c *Config) ResolvedFeatureNamesPath() string {
	if c.FeatureNamesPath == "" {
		return ""
	}
	return c.resolve(c.FeatureNamesPath)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.ModelBaseDir == "" {
		return p
	}
	return filepath.Join(c.ModelBaseDir, p)
}

// Validate checks settings that would otherwise fail late
func (c *Config) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return core.ConfigError("server port out of range", nil)
	}
	if c.ModelPath == "" {
		return core.ConfigError("model path is required", nil)
	}
	switch c.DatabaseDriver {
	case "", DriverPostgres, DriverSQLite:
	default:
		return core.ConfigError("unsupported database driver "+c.DatabaseDriver, nil)
	}
	if c.IsHistoryEnabled() && c.DatabaseURL == "" {
		return core.ConfigError("database url is required when a database driver is set", nil)
	}
	if (c.TLSCertPath == "") != (c.TLSKeyPath == "") {
		return core.ConfigError("both TLS certificate and key paths must be set", nil)
	}
	return nil
}

// defaults mirrors the values the server runs with when nothing is configured
var defaults = map[string]interface{}{
	"server_port":          8080,
	"shutdown_timeout":     "30s",
	"tls_cert_path":        "",
	"tls_key_path":         "",
	"model_base_dir":       "",
	"model_path":           "models/model_scm.json",
	"feature_names_path":   "models/feature_names.json",
	"database_driver":      "",
	"database_url":         "",
	"log_level":            "info",
	"log_development":      false,
	"cors_allowed_origins": []string{"*"},
}

// envBindings maps config keys to the environment variables that can set them
var envBindings = map[string][]string{
	"server_port":          {"SERVER_PORT"},
	"shutdown_timeout":     {"SHUTDOWN_TIMEOUT"},
	"tls_cert_path":        {"TLS_CERT_PATH"},
	"tls_key_path":         {"TLS_KEY_PATH"},
	"model_base_dir":       {"MODEL_BASE_DIR"},
	"model_path":           {"MODEL_PATH"},
	"feature_names_path":   {"FEATURE_NAMES_PATH"},
	"database_driver":      {"DATABASE_DRIVER"},
	"database_url":         {"DATABASE_URL"},
	"log_level":            {"LOG_LEVEL"},
	"log_development":      {"LOG_DEVELOPMENT"},
	"cors_allowed_origins": {"CORS_ALLOWED_ORIGINS"},
}

// LoadConfig loads configuration from the file named by CONFIG_FILE, if any, and the environment
func LoadConfig() (*Config, error) {
	return Load(os.Getenv("CONFIG_FILE"))
}

// Load loads configuration from filePath, falling back to defaults and environment variables
// if the file does not exist. Environment variables override values from the file.
func Load(filePath string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	if err := bindEnvs(v); err != nil {
		return nil, core.ConfigError("failed to bind environment", err)
	}

	if filePath != "" {
		if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
			v.SetConfigFile(filePath)
			if err := v.ReadInConfig(); err != nil {
				return nil, core.ConfigError("failed to read config file "+filePath, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, core.ConfigError("failed to decode configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(slices.Clone(envs), 0, key)
		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}
	return nil
}
