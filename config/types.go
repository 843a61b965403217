package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds Sellsy API connection details
type APIConfig struct {
	URL               string        `mapstructure:"url" validate:"required,url"`
	ConsumerKey       string        `mapstructure:"consumer_key" validate:"required"`
	ConsumerSecret    string        `mapstructure:"consumer_secret" validate:"required"`
	AccessToken       string        `mapstructure:"access_token" validate:"required"`
	AccessTokenSecret string        `mapstructure:"access_token_secret" validate:"required"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gt=0"`
	TLSPolicy         string        `mapstructure:"tls_policy" validate:"omitempty,oneof=scheme verify insecure"`
	RateLimit         float64       `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst         int           `mapstructure:"rate_burst" validate:"gte=1"`
	UserAgent         string        `mapstructure:"user_agent"`
}

// BatchConfig contains batch runner settings
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" validate:"gte=1,lte=32"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	Color  bool   `mapstructure:"color"`
}
