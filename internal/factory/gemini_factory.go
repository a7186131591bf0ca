package factory

import (
	"context"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/adapters/gemini"
	"github.com/mikey/lead-email-generator/internal/config"
	"github.com/mikey/lead-email-generator/internal/core"
)

// ErrMissingCredentials is returned when a provider has no API key configured
var ErrMissingCredentials = eris.New("provider credentials are not configured")

// GeminiFactory creates Gemini LLM clients sharing one API client
type GeminiFactory struct {
	cfg    *config.Config
	logger *zap.Logger

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiFactory creates a new Gemini factory
func NewGeminiFactory(cfg *config.Config, logger *zap.Logger) *GeminiFactory {
	return &GeminiFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates a Gemini client for modelName
func (f *GeminiFactory) CreateLLMClient(modelName string, llmCfg config.LLMConfig) (core.InferenceClient, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, eris.Wrap(ErrMissingCredentials, "gemini API key is required")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client == nil {
		client, err := gemini.NewGenaiClient(context.Background(), geminiCfg.APIKey)
		if err != nil {
			return nil, err
		}
		f.client = client
	}

	return gemini.NewGeminiClient(f.client, modelName, gemini.Options{
		MaxTokens:   llmCfg.MaxTokens,
		Temperature: llmCfg.Temperature,
		TopP:        llmCfg.TopP,
	}, f.logger), nil
}

// Close closes the shared Gemini client
func (f *GeminiFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client == nil {
		return nil
	}
	err := f.client.Close()
	f.client = nil
	return err
}
