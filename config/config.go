package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jeremyrcoyle/delayed/logger"
	"github.com/jeremyrcoyle/delayed/validation"
)

// Config holds the run configuration for computing a task graph.
type Config struct {
	// Workers is the number of concurrently running tasks.
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gte=1"`
	// Verbose enables per-transition progress logging.
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	// Logging configures the logger.
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
	// Telemetry configures tracing and metrics export.
	Telemetry Telemetry `yaml:"telemetry" mapstructure:"telemetry"`
}

// Telemetry configures OpenTelemetry export.
type Telemetry struct {
	// Enabled turns on trace and metric export.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// Default returns the configuration used when nothing is provided.
func Default() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
	c.Logging.ApplyDefaults()
}

// Validate checks the configuration with struct tags plus the logger's own
// validation.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return c.Logging.Validate()
}

// LoaderOptions control where configuration is read from.
type LoaderOptions struct {
	// ConfigFile is an explicit YAML config path. When empty, conventional
	// locations are searched.
	ConfigFile string
	// EnvFile is an explicit .env path. When empty, ./.env is used if present.
	EnvFile string
}

// Load reads configuration from a YAML file (if found), a .env file (if
// present), and DELAYED_-prefixed environment variables, then applies
// defaults and validates.
func Load(opts LoaderOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("DELAYED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !asConfigNotFound(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
			// No config file is fine; env and defaults apply.
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnvKeys registers the keys viper should map from the environment even
// when they are absent from the config file.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"workers",
		"verbose",
		"logging.level",
		"logging.format",
		"logging.output",
		"logging.no_color",
		"telemetry.enabled",
		"telemetry.endpoint",
		"telemetry.sample_rate",
	} {
		_ = v.BindEnv(key)
	}
}

func asConfigNotFound(err error, target *viper.ConfigFileNotFoundError) bool {
	if e, ok := err.(viper.ConfigFileNotFoundError); ok {
		*target = e
		return true
	}
	return false
}
