package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/config"
	"github.com/mikey/lead-email-generator/internal/core"
	"github.com/mikey/lead-email-generator/internal/resolver"
	"github.com/mikey/lead-email-generator/internal/utils"
)

// ResolverFactory assembles the tiered resolver
type ResolverFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewResolverFactory creates a new resolver factory
func NewResolverFactory(cfg *config.Config, logger *zap.Logger) *ResolverFactory {
	return &ResolverFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateResolver wraps each client in a remote strategy, in order, in front of the cache
// and fallback tiers. cache may be nil.
func (f *ResolverFactory) CreateResolver(
	clients []core.InferenceClient,
	cache core.ResolutionCache,
	recorder core.AttemptRecorder,
	textProcessor *utils.TextProcessor,
) (*resolver.Resolver, error) {
	llmCfg, err := f.cfg.GetLLM()
	if err != nil {
		return nil, err
	}

	prompts := resolver.NewPromptBuilder(textProcessor)
	strategies := make([]resolver.Strategy, 0, len(clients))
	for _, client := range clients {
		strategies = append(strategies, resolver.NewRemote(client, prompts, recorder, llmCfg.Timeout, f.logger))
	}

	return resolver.NewResolver(cache, resolver.NewChain(f.logger, strategies...), f.logger), nil
}
