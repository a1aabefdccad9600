// Package config loads runtime settings from flags, FQCD_* environment
// variables and an optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/talgya/fi-verse/internal/phi"
)

// EnvPrefix namespaces environment overrides: api.port is read from FQCD_API_PORT.
const EnvPrefix = "FQCD"

// Config is the resolved runtime configuration.
type Config struct {
	DB        DBConfig      `mapstructure:"db"`
	API       APIConfig     `mapstructure:"api"`
	Log       LogConfig     `mapstructure:"log"`
	Constants phi.Constants `mapstructure:"constants"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type APIConfig struct {
	Port        int    `mapstructure:"port"`
	AdminKey    string `mapstructure:"admin_key"`    // Bearer token for snapshot writes. Empty = writes disabled.
	CORSOrigins string `mapstructure:"cors_origins"` // Comma-separated extra origins.
	RateLimit   int    `mapstructure:"rate_limit"`   // Snapshot writes per IP per hour.

	// Comma-separated proxy addresses whose X-Forwarded-For is honoured.
	TrustedProxies string `mapstructure:"trusted_proxies"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// New returns a viper instance with every key defaulted and environment
// overrides enabled.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("db.path", filepath.Join("data", "fqcd.db"))
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.admin_key", "")
	v.SetDefault("api.cors_origins", "")
	v.SetDefault("api.rate_limit", 30)
	v.SetDefault("api.trusted_proxies", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	c := phi.Canonical()
	v.SetDefault("constants.alpha", c.Alpha)
	v.SetDefault("constants.phi", c.Phi)
	v.SetDefault("constants.pi", c.Pi)
	v.SetDefault("constants.c_km_s", c.C)
	v.SetDefault("constants.h0_planck", c.H0Planck)
	v.SetDefault("constants.h0_shoes", c.H0SH0ES)
	v.SetDefault("constants.g", c.G)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads file (or searches ./fqcd.yaml and $HOME/.config/fqcd/fqcd.yaml
// when file is empty) into v and returns the validated configuration.
// A missing file is only an error when it was named explicitly.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("fqcd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "fqcd"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	if err := cfg.Constants.Validate(); err != nil {
		return fmt.Errorf("constants: %w", err)
	}
	if cfg.API.Port < 0 || cfg.API.Port > 65535 {
		return fmt.Errorf("api.port out of range: %d", cfg.API.Port)
	}
	if cfg.API.RateLimit <= 0 {
		return fmt.Errorf("api.rate_limit must be positive, got %d", cfg.API.RateLimit)
	}
	if _, err := parseLevel(cfg.Log.Level); err != nil {
		return err
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Log.Format)
	}
	return nil
}

// Origins returns the configured CORS origins, trimmed, without empties.
func (c APIConfig) Origins() []string {
	return splitList(c.CORSOrigins)
}

// Proxies returns the trusted proxy addresses, trimmed, without empties.
func (c APIConfig) Proxies() []string {
	return splitList(c.TrustedProxies)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Logger builds the process logger described by the log section.
func (c LogConfig) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
