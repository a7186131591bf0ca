package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/core"
)

// Strategy is one way of resolving a company to a domain mapping. A strategy that
// cannot produce a usable mapping reports false and the next one is tried.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, company string) (core.DomainMapping, bool)
}

// Chain tries strategies in priority order, returning the first success
type Chain struct {
	strategies []Strategy
	logger     *zap.Logger
}

// NewChain creates a Chain. Strategies are tried in the given order.
func NewChain(logger *zap.Logger, strategies ...Strategy) *Chain {
	return &Chain{
		strategies: strategies,
		logger:     logger,
	}
}

// Len returns the number of strategies in the chain
func (c *Chain) Len() int {
	return len(c.strategies)
}

// Strategies returns the strategies in priority order
func (c *Chain) Strategies() []Strategy {
	return c.strategies
}

// Resolve tries each strategy once. It reports false when all of them fail.
func (c *Chain) Resolve(ctx context.Context, company string) (core.DomainMapping, bool) {
	for _, s := range c.strategies {
		if ctx.Err() != nil {
			return core.DomainMapping{}, false
		}
		if mapping, ok := s.Resolve(ctx, company); ok {
			return mapping, true
		}
		c.logger.Debug("Strategy failed, trying next",
			zap.String("strategy", s.Name()),
			zap.String("company", company))
	}
	return core.DomainMapping{}, false
}
