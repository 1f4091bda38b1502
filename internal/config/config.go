package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type SamplerConfig struct {
	IntervalMs int `mapstructure:"interval_ms"`
}

type SourceConfig struct {
	Kind            string   `mapstructure:"kind"` // host or container
	Interfaces      []string `mapstructure:"interfaces"`
	IncludeLoopback bool     `mapstructure:"include_loopback"`
	Container       string   `mapstructure:"container"`
}

type DockerConfig struct {
	Host           string `mapstructure:"host"`
	TLSVerify      bool   `mapstructure:"tls_verify"`
	CertPath       string `mapstructure:"cert_path"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type StorageConfig struct {
	Dir            string `mapstructure:"dir"`
	RetentionHours int    `mapstructure:"retention_hours"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
	File   string `mapstructure:"file"`
}

type Config struct {
	Sampler SamplerConfig `mapstructure:"sampler"`
	Source  SourceConfig  `mapstructure:"source"`
	Docker  DockerConfig  `mapstructure:"docker"`
	Storage StorageConfig `mapstructure:"storage"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Interval returns the sampling period
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Sampler.IntervalMs) * time.Millisecond
}

// DockerTimeout returns the docker connect timeout
func (c *Config) DockerTimeout() time.Duration {
	return time.Duration(c.Docker.TimeoutSeconds) * time.Second
}

// Retention returns how long history is kept
func (c *Config) Retention() time.Duration {
	return time.Duration(c.Storage.RetentionHours) * time.Hour
}

// DefaultPath returns ~/.netspeed/config.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".netspeed", "config.yaml")
}

// LoadConfig reads path (yaml). A missing file is not an error: defaults and
// NETSPEED_* environment variables are used instead.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// env overrides: NETSPEED_SAMPLER_INTERVAL_MS etc.
	v.SetEnvPrefix("netspeed")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	sanitize(&cfg)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".netspeed")

	v.SetDefault("sampler.interval_ms", 1000)
	v.SetDefault("source.kind", "host")
	v.SetDefault("source.interfaces", []string{})
	v.SetDefault("source.include_loopback", false)
	v.SetDefault("source.container", "")
	v.SetDefault("docker.host", "unix:///var/run/docker.sock")
	v.SetDefault("docker.tls_verify", false)
	v.SetDefault("docker.cert_path", "")
	v.SetDefault("docker.timeout_seconds", 30)
	v.SetDefault("storage.dir", dataDir)
	v.SetDefault("storage.retention_hours", 168)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen", "127.0.0.1:9810")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", filepath.Join(dataDir, "netspeed.log"))
}

// quick sanity checks
func sanitize(cfg *Config) {
	if cfg.Sampler.IntervalMs < 100 {
		cfg.Sampler.IntervalMs = 1000
	}
	cfg.Source.Kind = strings.ToLower(strings.TrimSpace(cfg.Source.Kind))
	if cfg.Source.Kind == "" {
		cfg.Source.Kind = "host"
	}
	if cfg.Docker.TimeoutSeconds <= 0 {
		cfg.Docker.TimeoutSeconds = 30
	}
	if cfg.Storage.RetentionHours <= 0 {
		cfg.Storage.RetentionHours = 168
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = "127.0.0.1:9810"
	}
}
