package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int    `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"gte=0"` // seconds
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// SchedulerConfig exposes the tunable constants of the scheduling engine.
// Zero values keep the engine defaults, so every field is optional. This is
// the product's knob for the growth function without a code change.
type SchedulerConfig struct {
	GoodSeedIntervalDays int     `mapstructure:"good_seed_interval_days" validate:"gte=0"`
	EasySeedIntervalDays int     `mapstructure:"easy_seed_interval_days" validate:"gte=0"`
	GoodGrowthFactor     float64 `mapstructure:"good_growth_factor"      validate:"gte=0"`
	EasyGrowthFactor     float64 `mapstructure:"easy_growth_factor"      validate:"gte=0"`
	RelearnIntervalDays  int     `mapstructure:"relearn_interval_days"   validate:"gte=0"`
	MaxIntervalDays      int     `mapstructure:"max_interval_days"       validate:"gte=0"`
}
