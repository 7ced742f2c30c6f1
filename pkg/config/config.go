package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Fetcher    FetcherConfig    `yaml:"fetcher"`
	Tracker    TrackerConfig    `yaml:"tracker"`
	Fallback   FallbackConfig   `yaml:"fallback"`
	Explorer   ExplorerConfig   `yaml:"explorer"`
	Session    SessionConfig    `yaml:"session"`
	Database   DatabaseConfig   `yaml:"database"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
}

// GatewayConfig configures the multi-provider lookup gateway
type GatewayConfig struct {
	UserAgent string                    `yaml:"user_agent" default:"CrossChainMonitor/1.0"`
	Providers map[string]ProviderConfig `yaml:"providers" validate:"dive"`
}

// ProviderConfig describes one upstream provider. Endpoints are URL
// templates in which {hash} is replaced by the looked-up hash.
type ProviderConfig struct {
	Endpoints     []string      `yaml:"endpoints" validate:"required,min=1,dive,required"`
	Timeout       time.Duration `yaml:"timeout" default:"8s"`
	Fallback      bool          `yaml:"fallback"`
	ValidateShape bool          `yaml:"validate_shape"`
	RateLimitRPS  float64       `yaml:"rate_limit_rps" default:"5"`
	Burst         int           `yaml:"burst" default:"5"`
}

// FetcherConfig configures the client used by the tracking engine
type FetcherConfig struct {
	GatewayURL string        `yaml:"gateway_url" default:"http://localhost:8080" validate:"required,url"`
	Provider   string        `yaml:"provider" default:"layerzero" validate:"required"`
	Timeout    time.Duration `yaml:"timeout" default:"15s"`
}

// TrackerConfig contains the polling policy of the tracking engine
type TrackerConfig struct {
	MaxRetries           int           `yaml:"max_retries" default:"30" validate:"min=1"`
	RetryInterval        time.Duration `yaml:"retry_interval" default:"10s"`
	SyntheticGraceRounds int           `yaml:"synthetic_grace_rounds" default:"2" validate:"min=0"`
}

// FallbackConfig contains settings for synthetic records
type FallbackConfig struct {
	SourceChainID int64 `yaml:"source_chain_id" default:"101"`
	DestChainID   int64 `yaml:"dest_chain_id" default:"109"`
}

// ExplorerConfig contains base URLs for human-readable explorer links
type ExplorerConfig struct {
	MessageBaseURL     string `yaml:"message_base_url" default:"https://layerzeroscan.com" validate:"required,url"`
	DestinationBaseURL string `yaml:"destination_base_url" default:"https://polygon.blockscout.com" validate:"required,url"`
}

// SessionConfig contains tracking session settings
type SessionConfig struct {
	TickInterval time.Duration `yaml:"tick_interval" default:"1s"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host" default:"localhost" validate:"required_if=Enabled true"`
	Port     int    `yaml:"port" default:"5432"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database" default:"bridge_tracker"`
	SSLMode  string `yaml:"ssl_mode" default:"disable"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled     bool   `yaml:"enabled" default:"true"`
	MetricsPath string `yaml:"metrics_path" default:"/metrics"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level" default:"info"`
	Format     string `yaml:"format" default:"json" validate:"oneof=json console"`
	OutputPath string `yaml:"output_path" default:"stdout"`
}

// DefaultProviders returns the providers served by the gateway when the
// configuration file does not define any.
func DefaultProviders() map[string]ProviderConfig {
	return map[string]ProviderConfig{
		"layerzero": {
			Endpoints: []string{
				"https://api.layerzeroscan.com/tx/{hash}",
				"https://layerzeroscan.com/api/tx/{hash}",
			},
			Timeout:       5 * time.Second,
			Fallback:      true,
			ValidateShape: true,
			RateLimitRPS:  5,
			Burst:         5,
		},
		"flare": {
			Endpoints:    []string{"https://flare-explorer.flare.network/api/v2/transactions/{hash}"},
			Timeout:      8 * time.Second,
			RateLimitRPS: 5,
			Burst:        5,
		},
		"blockscout": {
			Endpoints:    []string{"https://eth.blockscout.com/api/v2/transactions/{hash}"},
			Timeout:      8 * time.Second,
			RateLimitRPS: 5,
			Burst:        5,
		},
	}
}

// Default returns a configuration with every default applied.
func Default() (*Config, error) {
	return Parse(nil)
}

// Load loads configuration from file. ${VAR} references in the file are
// expanded from the environment before parsing.
func Load(configPath string) (*Config, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse([]byte(os.ExpandEnv(string(raw))))
}

// Parse builds a Config from YAML, applying defaults and validation.
func Parse(raw []byte) (*Config, error) {
	// Defaults go first so explicit zero values in the file (enabled: false)
	// are not overwritten afterwards.
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	if len(bytes.TrimSpace(raw)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if len(cfg.Gateway.Providers) == 0 {
		cfg.Gateway.Providers = DefaultProviders()
	}
	for name, p := range cfg.Gateway.Providers {
		if err := defaults.Set(&p); err != nil {
			return nil, fmt.Errorf("failed to apply defaults for provider %s: %w", name, err)
		}
		cfg.Gateway.Providers[name] = p
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	if _, ok := cfg.Gateway.Providers[cfg.Fetcher.Provider]; !ok {
		return fmt.Errorf("fetcher.provider %q is not a configured gateway provider", cfg.Fetcher.Provider)
	}
	return nil
}

// Addr returns the listen address of the HTTP server
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
