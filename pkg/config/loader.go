package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader defines the interface for loading configuration.
type Loader interface {
	Load() (*Config, error)
	Validate(*Config) error
}

// ViperLoader implements Loader using Viper.
type ViperLoader struct {
	configFile string
	envPrefix  string
}

// NewViperLoader creates a ViperLoader. configFile may be empty; envPrefix
// prefixes every environment variable (e.g. "COSMOSDB").
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	return &ViperLoader{configFile: configFile, envPrefix: envPrefix}
}

// Load loads configuration with precedence: environment > file > defaults.
func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("cosmos.operation_timeout", defaults.Cosmos.OperationTimeout)
	v.SetDefault("logger.level", defaults.Logger.Level)
	v.SetDefault("logger.format", defaults.Logger.Format)

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	v.SetEnvPrefix(l.envPrefix)
	l.bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// A region list arriving through a single env var is comma-separated,
	// possibly with whitespace around the names.
	cfg.Cosmos.PreferredRegions = splitRegions(cfg.Cosmos.PreferredRegions)

	if err := l.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func splitRegions(raw []string) []string {
	if len(raw) == 0 {
		return raw
	}
	regions := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				regions = append(regions, part)
			}
		}
	}
	return regions
}

func (l *ViperLoader) bindEnvVars(v *viper.Viper) {
	v.BindEnv("service.name", l.prefixedEnv("SERVICE_NAME"))
	v.BindEnv("cosmos.endpoint", l.prefixedEnv("COSMOS_ENDPOINT"))
	v.BindEnv("cosmos.key", l.prefixedEnv("COSMOS_KEY"))
	v.BindEnv("cosmos.database", l.prefixedEnv("COSMOS_DATABASE"))
	v.BindEnv("cosmos.container", l.prefixedEnv("COSMOS_CONTAINER"))
	v.BindEnv("cosmos.preferred_regions", l.prefixedEnv("COSMOS_PREFERRED_REGIONS"))
	v.BindEnv("cosmos.operation_timeout", l.prefixedEnv("COSMOS_OPERATION_TIMEOUT"))
	v.BindEnv("logger.level", l.prefixedEnv("LOG_LEVEL"))
	v.BindEnv("logger.format", l.prefixedEnv("LOG_FORMAT"))
}

func (l *ViperLoader) prefixedEnv(name string) string {
	if l.envPrefix == "" {
		return name
	}
	return l.envPrefix + "_" + name
}

// Validate checks the loaded configuration, failing fast before any network
// interaction.
func (l *ViperLoader) Validate(cfg *Config) error {
	if cfg.Cosmos.Endpoint == "" {
		return fmt.Errorf("cosmos.endpoint is required")
	}
	if cfg.Cosmos.Key == "" {
		return fmt.Errorf("cosmos.key is required")
	}
	if cfg.Cosmos.Database == "" {
		return fmt.Errorf("cosmos.database is required")
	}
	if cfg.Cosmos.Container == "" {
		return fmt.Errorf("cosmos.container is required")
	}
	if len(cfg.Cosmos.PreferredRegions) == 0 {
		return fmt.Errorf("cosmos.preferred_regions must list at least one region")
	}
	if strings.Contains(cfg.Service.Name, ".") {
		return fmt.Errorf("service.name %q must not contain %q", cfg.Service.Name, ".")
	}
	return nil
}
