package config

import (
	"encoding/json"
)

// Config represents the rcrm configuration
type Config struct {
	Logging      LoggingConfig      `json:"logging" yaml:"logging" mapstructure:"logging"`
	Server       ServerConfig       `json:"server" yaml:"server" mapstructure:"server"`
	Catalog      CatalogConfig      `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Orchestrator OrchestratorConfig `json:"orchestrator" yaml:"orchestrator" mapstructure:"orchestrator"`
	Approval     ApprovalConfig     `json:"approval" yaml:"approval" mapstructure:"approval"`
	Metrics      MetricsConfig      `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
	Audit        AuditConfig        `json:"audit" yaml:"audit" mapstructure:"audit"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	File      string `json:"file" yaml:"file" mapstructure:"file"`
	Pretty    bool   `json:"pretty" yaml:"pretty" mapstructure:"pretty"`
	MaxSize   int    `json:"max_size" yaml:"max_size" mapstructure:"max_size" validate:"gte=0"` // MB
	MaxAge    int    `json:"max_age" yaml:"max_age" mapstructure:"max_age" validate:"gte=0"`    // days
	Compress  bool   `json:"compress" yaml:"compress" mapstructure:"compress"`
	Redaction bool   `json:"redaction" yaml:"redaction" mapstructure:"redaction"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string `json:"host" yaml:"host" mapstructure:"host" validate:"required"`
	Port            int    `json:"port" yaml:"port" mapstructure:"port" validate:"min=1,max=65535"`
	ShutdownTimeout int    `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"gte=0"` // seconds
	RateLimit       int    `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit" validate:"gte=0"`                   // requests per minute per client, 0 disables
}

// CatalogConfig selects the tool catalog. An empty path means the built-in catalog.
type CatalogConfig struct {
	Path  string `json:"path" yaml:"path" mapstructure:"path" validate:"required_if=Watch true"`
	Watch bool   `json:"watch" yaml:"watch" mapstructure:"watch"`
}

// OrchestratorConfig holds relevance search defaults
type OrchestratorConfig struct {
	DefaultLimit int `json:"default_limit" yaml:"default_limit" mapstructure:"default_limit" validate:"min=1,max=50"`
}

// ApprovalConfig controls confirmation prompts for plan steps
type ApprovalConfig struct {
	Timeout int `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"min=1"` // seconds
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" yaml:"path" mapstructure:"path" validate:"startswith=/"`
}

// AuditConfig selects the audit log. An empty file disables auditing.
type AuditConfig struct {
	File string `json:"file" yaml:"file" mapstructure:"file"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:     "info",
			Pretty:    true,
			MaxSize:   50,
			MaxAge:    7,
			Compress:  true,
			Redaction: true,
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8088,
			ShutdownTimeout: 10,
			RateLimit:       120,
		},
		Orchestrator: OrchestratorConfig{
			DefaultLimit: 5,
		},
		Approval: ApprovalConfig{
			Timeout: 60,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	return NewValidator().Validate(c)
}
