package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"sigs.k8s.io/yaml"
)

const (
	// DefaultPort is the standard vCenter SDK port.
	DefaultPort = 443
	// DefaultLogLevel is the level used when none is configured. Can be
	// "debug", "info", "warn", "error" or any other zap level name.
	DefaultLogLevel = "info"
)

// VCenter holds the connection parameters for the management endpoint.
// URL, when set, takes precedence over Host/Port.
type VCenter struct {
	URL      string `json:"url,omitempty" envconfig:"VCENTER_URL"`
	Host     string `json:"host,omitempty" envconfig:"VCENTER_HOST"`
	Port     int    `json:"port,omitempty" envconfig:"VCENTER_PORT" default:"443"`
	Username string `json:"username,omitempty" envconfig:"VCENTER_USERNAME"`
	Password string `json:"password,omitempty" envconfig:"VCENTER_PASSWORD"`
	// Insecure disables TLS certificate verification. Verification is on
	// by default; disabling it is an explicit opt-in.
	Insecure bool `json:"insecure,omitempty" envconfig:"VCENTER_INSECURE" default:"false"`
}

type Config struct {
	VCenter VCenter `json:"vcenter"`

	// Output is the path the snapshot is written to; empty means stdout.
	Output string `json:"output,omitempty" envconfig:"VCENTER_INVENTORY_OUTPUT"`

	// LogLevel is the level of logging. Any unknown value is treated as "info".
	LogLevel string `json:"log-level,omitempty" envconfig:"VCENTER_INVENTORY_LOG_LEVEL" default:"info"`

	// MetricsAddr is the address the Prometheus endpoint binds to for the
	// duration of the run; empty means no metrics endpoint.
	MetricsAddr string `json:"metrics-addr,omitempty" envconfig:"VCENTER_INVENTORY_METRICS_ADDR"`
}

// New builds a Config from the environment.
func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func NewDefault() *Config {
	return &Config{
		VCenter: VCenter{
			Port: DefaultPort,
		},
		LogLevel: DefaultLogLevel,
	}
}

// ParseConfigFile reads the config file and unmarshals it into the Config struct.
func (cfg *Config) ParseConfigFile(cfgFile string) error {
	contents, err := os.ReadFile(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config file: %w", err)
	}
	return nil
}

// Validate checks that the endpoint and credentials are usable.
func (cfg *Config) Validate() error {
	if cfg.VCenter.URL == "" && cfg.VCenter.Host == "" {
		return fmt.Errorf("vcenter host or url is required")
	}
	if cfg.VCenter.URL == "" {
		if cfg.VCenter.Port < 1 || cfg.VCenter.Port > 65535 {
			return fmt.Errorf("vcenter port %d is out of range", cfg.VCenter.Port)
		}
	}
	if cfg.VCenter.Username == "" {
		return fmt.Errorf("vcenter username is required")
	}
	if cfg.VCenter.Password == "" {
		return fmt.Errorf("vcenter password is required")
	}
	return nil
}

func (cfg *Config) String() string {
	redacted := *cfg
	if redacted.VCenter.Password != "" {
		redacted.VCenter.Password = "[REDACTED]"
	}
	contents, err := json.Marshal(redacted)
	if err != nil {
		return "<error>"
	}
	return string(contents)
}
