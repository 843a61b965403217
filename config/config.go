package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SELLSY_API_CONSUMER_SECRET
const EnvPrefix = "SELLSY"

// Load loads the configuration from file and environment.
//
// When configPath is empty the standard locations are searched and a missing
// file is not an error, so credentials can come from the environment alone.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".sellsyctl"))
		}

		// Check /etc
		v.AddConfigPath("/etc/sellsyctl/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key gets a default so
// AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.url", "https://apifeed.sellsy.com/0/")
	v.SetDefault("api.consumer_key", "")
	v.SetDefault("api.consumer_secret", "")
	v.SetDefault("api.access_token", "")
	v.SetDefault("api.access_token_secret", "")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.tls_policy", "scheme")
	v.SetDefault("api.rate_limit", 0)
	v.SetDefault("api.rate_burst", 1)
	v.SetDefault("api.user_agent", "sellsyctl")

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

var validate = newValidator()

// newValidator returns the struct validator used for Config
func newValidator() func(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report mapstructure names so errors match the config file keys
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
	})

	return func(cfg *Config) error {
		err := v.Struct(cfg)
		if err == nil {
			return nil
		}

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}

		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
}

// describe turns a validation failure into a config-file style message
func describe(fe validator.FieldError) string {
	key := configKey(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", key)
	case "url":
		return fmt.Sprintf("%s must be a valid URL: %v", key, fe.Value())
	case "oneof":
		return fmt.Sprintf("invalid %s: %v (must be one of %s)", key, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("invalid %s: %v (%s=%s)", key, fe.Value(), fe.Tag(), fe.Param())
	}
}

// configKey strips the root struct name from a validator namespace
func configKey(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
