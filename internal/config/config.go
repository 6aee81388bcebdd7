// Package config loads the simgate configuration from YAML and the
// environment.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Mode    string        `mapstructure:"mode"    validate:"required,oneof=development production"`
	Owner   string        `mapstructure:"owner"   validate:"omitempty,startswith=did:"`
	Circuit CircuitConfig `mapstructure:"circuit" validate:"required"`
	Audit   AuditConfig   `mapstructure:"audit"`
	Events  EventsConfig  `mapstructure:"events"`
}

// CircuitConfig carries the four public circuit constants agreed out-of-band
// with issuers. Type and role are given as the string claims issuers encode;
// they are mapped into the field with the shared claim encoding.
type CircuitConfig struct {
	CurrentReferenceTime  int64  `mapstructure:"current_reference_time" validate:"required,gt=0"`
	ExpectedTypeCode      string `mapstructure:"expected_type_code"      validate:"required"`
	ExpectedRoleCode      string `mapstructure:"expected_role_code"      validate:"required"`
	ExpectedClearanceCode uint64 `mapstructure:"expected_clearance_code"`
}

// AuditConfig configures the optional durable audit export. An empty DSN
// disables it.
type AuditConfig struct {
	DatabaseURL string `mapstructure:"database_url"`
}

// EventsConfig configures the notification bus.
type EventsConfig struct {
	BufferSize int `mapstructure:"buffer_size" validate:"gte=0"`
}

// Load reads the configuration from a YAML file and environment variables.
// An explicit path must exist; with no path, a missing file on the search
// paths is fine and defaults plus the environment apply.
func Load(path string) (*Config, error) {
	vip := viper.New()
	if path != "" {
		vip.SetConfigFile(path)
	} else {
		vip.SetConfigName("config")
		vip.AddConfigPath("./configs")
		vip.AddConfigPath(".")
	}

	vip.SetConfigType("yaml")
	vip.SetEnvPrefix("SIMGATE")
	vip.AutomaticEnv()
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	vip.SetDefault("mode", "development")
	vip.SetDefault("events.buffer_size", 16)
	vip.SetDefault("circuit.current_reference_time", 1736112000)
	vip.SetDefault("circuit.expected_type_code", "operator-cred")
	vip.SetDefault("circuit.expected_role_code", "operator")
	vip.SetDefault("circuit.expected_clearance_code", 3)

	if err := vip.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
