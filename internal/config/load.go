package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for all environment variables read by the service,
// e.g. STUDY_SERVER_PORT, STUDY_DATABASE_URL.
const envPrefix = "STUDY"

// configKeys lists every key the loader binds to the environment. Viper's
// AutomaticEnv does not surface env-only keys through Unmarshal, so each key
// is bound explicitly.
var configKeys = []string{
	"server.port",
	"server.log_level",
	"server.shutdown_timeout",
	"database.url",
	"scheduler.good_seed_interval_days",
	"scheduler.easy_seed_interval_days",
	"scheduler.good_growth_factor",
	"scheduler.easy_growth_factor",
	"scheduler.relearn_interval_days",
	"scheduler.max_interval_days",
}

// Load reads configuration from environment variables.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 10)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind config key %q: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
