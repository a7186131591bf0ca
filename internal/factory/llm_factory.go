package factory

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/config"
	"github.com/mikey/lead-email-generator/internal/core"
)

// Supported endpoint providers
const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
)

// EndpointSpec is one configured inference endpoint
type EndpointSpec struct {
	Provider string
	Model    string
}

// ParseEndpoint parses a "provider:model" endpoint entry
func ParseEndpoint(entry string) (EndpointSpec, error) {
	provider, model, ok := strings.Cut(strings.TrimSpace(entry), ":")
	provider = strings.ToLower(strings.TrimSpace(provider))
	model = strings.TrimSpace(model)
	if !ok || provider == "" || model == "" {
		return EndpointSpec{}, eris.Errorf("invalid endpoint %q, expected provider:model", entry)
	}

	switch provider {
	case ProviderGemini, ProviderOpenAI, ProviderBedrock:
		return EndpointSpec{Provider: provider, Model: model}, nil
	default:
		return EndpointSpec{}, eris.Errorf("unsupported LLM provider: %s", provider)
	}
}

// LLMFactory creates inference clients for the configured endpoint list
type LLMFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	gemini  *GeminiFactory
	openai  *OpenAIFactory
	bedrock *BedrockFactory
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:     cfg,
		logger:  logger,
		gemini:  NewGeminiFactory(cfg, logger),
		openai:  NewOpenAIFactory(cfg, logger),
		bedrock: NewBedrockFactory(cfg, logger),
	}
}

// CreateClients returns one client per configured endpoint in priority order. Endpoints
// whose provider has no credentials are skipped; an empty result disables the remote tier.
func (f *LLMFactory) CreateClients() ([]core.InferenceClient, error) {
	llmCfg, err := f.cfg.GetLLM()
	if err != nil {
		return nil, err
	}

	clients := make([]core.InferenceClient, 0, len(llmCfg.Endpoints))
	for _, entry := range llmCfg.Endpoints {
		spec, err := ParseEndpoint(entry)
		if err != nil {
			return nil, err
		}

		var client core.InferenceClient
		switch spec.Provider {
		case ProviderGemini:
			client, err = f.gemini.CreateLLMClient(spec.Model, llmCfg)
		case ProviderOpenAI:
			client, err = f.openai.CreateLLMClient(spec.Model, llmCfg)
		case ProviderBedrock:
			client, err = f.bedrock.CreateLLMClient(spec.Model, llmCfg)
		}
		if eris.Is(err, ErrMissingCredentials) {
			f.logger.Warn("Skipping endpoint without credentials", zap.String("endpoint", entry))
			continue
		}
		if err != nil {
			return nil, eris.Wrapf(err, "failed to create endpoint %s", entry)
		}
		clients = append(clients, client)
	}

	if len(clients) == 0 {
		f.logger.Info("No inference endpoint available, resolving with heuristics only")
	}
	return clients, nil
}

// Close releases clients held by provider factories
func (f *LLMFactory) Close() error {
	return f.gemini.Close()
}
