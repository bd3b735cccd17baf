// Package config loads and validates client configuration.
package config

import "time"

// Config is the root configuration for the document-store client.
type Config struct {
	Service ServiceConfig
	Cosmos  CosmosConfig
	Logger  LoggerConfig
}

// ServiceConfig identifies the consuming service. The name doubles as the
// tenancy namespace embedded in every document's EntityType tag; leave it
// empty to disable namespacing.
type ServiceConfig struct {
	Name string `mapstructure:"name"`
}

// CosmosConfig holds the Cosmos DB connection parameters.
type CosmosConfig struct {
	Endpoint         string        `mapstructure:"endpoint"`
	Key              string        `mapstructure:"key"`
	Database         string        `mapstructure:"database"`
	Container        string        `mapstructure:"container"`
	PreferredRegions []string      `mapstructure:"preferred_regions"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the configuration defaults. Connection parameters
// have no defaults; they must come from the file or the environment.
func DefaultConfig() *Config {
	return &Config{
		Cosmos: CosmosConfig{
			OperationTimeout: 10 * time.Second,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
