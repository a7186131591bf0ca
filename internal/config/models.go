package config

import (
	"time"
)

// LLMConfig represents the inference settings shared by all endpoints
type LLMConfig struct {
	Endpoints   []string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey string
}

// OpenAIConfig represents the configuration for OpenAI compatible servers
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region string
}

// ResolverConfig controls batch resolution
type ResolverConfig struct {
	RateLimitDelay time.Duration
	MaxBatchSize   int
}

// CacheConfig represents the resolution cache configuration
type CacheConfig struct {
	Enabled          bool
	Type             string
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
}

// SessionConfig represents the session store configuration
type SessionConfig struct {
	Type             string
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
}

// StoreConfig represents the result store configuration
type StoreConfig struct {
	Dir               string
	MaxSessionRecords int
	Retention         time.Duration
	SweepFrequency    time.Duration
}

// InputConfig restricts accepted uploads
type InputConfig struct {
	MaxFileSize       int64
	AllowedExtensions []string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() (LLMConfig, error) {
	timeout, err := c.GetDuration("llm.timeout")
	if err != nil {
		return LLMConfig{}, err
	}
	return LLMConfig{
		Endpoints:   c.GetStringSlice("llm.endpoints"),
		Timeout:     timeout,
		MaxTokens:   c.GetInt("llm.max_tokens"),
		Temperature: float32(c.GetFloat64("llm.temperature")),
		TopP:        float32(c.GetFloat64("llm.top_p")),
	}, nil
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey: c.GetString("gemini.api_key"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:  c.GetString("openai.api_key"),
		BaseURL: c.GetString("openai.base_url"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region: c.GetString("bedrock.region"),
	}
}

// GetResolver returns the resolver configuration
func (c *Config) GetResolver() (ResolverConfig, error) {
	delay, err := c.GetDuration("resolver.rate_limit_delay")
	if err != nil {
		return ResolverConfig{}, err
	}
	return ResolverConfig{
		RateLimitDelay: delay,
		MaxBatchSize:   c.GetInt("resolver.max_batch_size"),
	}, nil
}

// GetCache returns the resolution cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, err
	}
	cleanupFreq, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, err
	}
	return CacheConfig{
		Enabled:          c.GetBool("cache.enabled"),
		Type:             c.GetString("cache.type"),
		TTL:              ttl,
		CleanupFrequency: cleanupFreq,
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
	}, nil
}

// GetSession returns the session store configuration
func (c *Config) GetSession() (SessionConfig, error) {
	ttl, err := c.GetDuration("session.ttl")
	if err != nil {
		return SessionConfig{}, err
	}
	cleanupFreq, err := c.GetDuration("session.cleanup_frequency")
	if err != nil {
		return SessionConfig{}, err
	}
	return SessionConfig{
		Type:             c.GetString("session.type"),
		TTL:              ttl,
		CleanupFrequency: cleanupFreq,
		SQLitePath:       c.GetString("session.sqlite_path"),
		MySQLDSN:         c.GetString("session.mysql_dsn"),
	}, nil
}

// GetStore returns the result store configuration
func (c *Config) GetStore() (StoreConfig, error) {
	retention, err := c.GetDuration("store.retention")
	if err != nil {
		return StoreConfig{}, err
	}
	sweepFreq, err := c.GetDuration("store.sweep_frequency")
	if err != nil {
		return StoreConfig{}, err
	}
	return StoreConfig{
		Dir:               c.GetString("store.dir"),
		MaxSessionRecords: c.GetInt("store.max_session_records"),
		Retention:         retention,
		SweepFrequency:    sweepFreq,
	}, nil
}

// GetInput returns the upload limits
func (c *Config) GetInput() InputConfig {
	return InputConfig{
		MaxFileSize:       c.GetInt64("input.max_file_size"),
		AllowedExtensions: c.GetStringSlice("input.allowed_extensions"),
	}
}

// GetPreviewRows returns how many processed rows a generate summary shows
func (c *Config) GetPreviewRows() int {
	return c.GetInt("output.preview_rows")
}
