package config

import (
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable overrides, e.g. LEADGEN_GEMINI_API_KEY
const EnvPrefix = "LEADGEN"

// DefaultEndpoints is the primary Gemini model followed by stable alternates
var DefaultEndpoints = []string{
	"gemini:gemini-2.0-flash-exp",
	"gemini:gemini-1.5-flash",
	"gemini:gemini-1.5-flash-latest",
	"gemini:gemini-pro",
}

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance from the standard search paths
func New() (*Config, error) {
	return NewFromFile("")
}

// NewFromFile creates a configuration instance. An empty path searches the standard
// locations; a missing file there is not an error.
func NewFromFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/lead-email-generator/")
		v.AddConfigPath("$HOME/.lead-email-generator")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "failed to read config file")
		}
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Inference endpoints, tried in order as provider:model
	v.SetDefault("llm.endpoints", DefaultEndpoints)
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.max_tokens", 100)
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.top_p", 0.0)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("bedrock.region", "us-east-1")

	v.SetDefault("resolver.rate_limit_delay", "500ms")
	v.SetDefault("resolver.max_batch_size", 50)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.type", "sqlite")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_frequency", "1h")
	v.SetDefault("cache.sqlite_path", "./data/domain_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/lead_email_generator")

	v.SetDefault("session.type", "sqlite")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.cleanup_frequency", "1h")
	v.SetDefault("session.sqlite_path", "./data/sessions.db")
	v.SetDefault("session.mysql_dsn", "user:password@tcp(localhost:3306)/lead_email_generator")

	v.SetDefault("store.dir", "./data/results")
	v.SetDefault("store.max_session_records", 1000)
	v.SetDefault("store.retention", "24h")
	v.SetDefault("store.sweep_frequency", "1h")

	v.SetDefault("input.max_file_size", 10*1024*1024)
	v.SetDefault("input.allowed_extensions", []string{"csv", "txt"})

	v.SetDefault("output.preview_rows", 10)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetInt64 gets an int64 value from the configuration
func (c *Config) GetInt64(key string) int64 {
	return c.v.GetInt64(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	d, err := time.ParseDuration(c.GetString(key))
	if err != nil {
		return 0, eris.Wrapf(err, "invalid duration for %s", key)
	}
	return d, nil
}

// Set overrides a configuration value
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
