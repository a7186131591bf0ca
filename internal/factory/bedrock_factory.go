package factory

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/adapters/bedrock"
	"github.com/mikey/lead-email-generator/internal/config"
	"github.com/mikey/lead-email-generator/internal/core"
)

// BedrockFactory creates Bedrock LLM clients sharing one runtime client
type BedrockFactory struct {
	cfg    *config.Config
	logger *zap.Logger

	mu      sync.Mutex
	runtime *bedrockruntime.Client
}

// NewBedrockFactory creates a new Bedrock factory
func NewBedrockFactory(cfg *config.Config, logger *zap.Logger) *BedrockFactory {
	return &BedrockFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates a Bedrock client for modelID. Credentials come from the
// default AWS chain.
func (f *BedrockFactory) CreateLLMClient(modelID string, llmCfg config.LLMConfig) (core.InferenceClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.runtime == nil {
		runtime, err := bedrock.NewRuntime(context.Background(), f.cfg.GetBedrock().Region)
		if err != nil {
			return nil, err
		}
		f.runtime = runtime
	}

	return bedrock.NewBedrockClient(f.runtime, modelID, bedrock.Options{
		MaxTokens:   llmCfg.MaxTokens,
		Temperature: llmCfg.Temperature,
		TopP:        llmCfg.TopP,
	}, f.logger), nil
}
