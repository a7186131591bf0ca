package factory

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/adapters/openai"
	"github.com/mikey/lead-email-generator/internal/config"
	"github.com/mikey/lead-email-generator/internal/core"
)

// OpenAIFactory creates OpenAI LLM clients
type OpenAIFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewOpenAIFactory creates a new OpenAI factory
func NewOpenAIFactory(cfg *config.Config, logger *zap.Logger) *OpenAIFactory {
	return &OpenAIFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates an OpenAI client for modelName. A base URL without an API key
// is accepted for self-hosted compatible servers.
func (f *OpenAIFactory) CreateLLMClient(modelName string, llmCfg config.LLMConfig) (core.InferenceClient, error) {
	openaiCfg := f.cfg.GetOpenAI()
	if openaiCfg.APIKey == "" && openaiCfg.BaseURL == "" {
		return nil, eris.Wrap(ErrMissingCredentials, "openai API key is required")
	}

	return openai.NewOpenAIClient(modelName, openai.Options{
		APIKey:      openaiCfg.APIKey,
		BaseURL:     openaiCfg.BaseURL,
		MaxTokens:   llmCfg.MaxTokens,
		Temperature: llmCfg.Temperature,
		TopP:        llmCfg.TopP,
	}, f.logger), nil
}
