// Package resolver determines a company's email domain and address format. It consults
// the resolution cache, then an ordered chain of remote inference endpoints, and finally
// a local heuristic that cannot fail.
package resolver

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/core"
)

// Resolver combines the cache, remote and fallback tiers
type Resolver struct {
	cache    core.ResolutionCache
	remote   *Chain
	fallback Fallback
	logger   *zap.Logger
}

// NewResolver creates a Resolver. cache may be nil to disable caching and remote may be
// empty when no endpoint is configured.
func NewResolver(cache core.ResolutionCache, remote *Chain, logger *zap.Logger) *Resolver {
	if remote == nil {
		remote = NewChain(logger)
	}
	return &Resolver{
		cache:  cache,
		remote: remote,
		logger: logger,
	}
}

// RemoteEnabled reports whether at least one remote endpoint is configured
func (r *Resolver) RemoteEnabled() bool {
	return r.remote.Len() > 0
}

// Endpoints returns the remote strategies in priority order
func (r *Resolver) Endpoints() []Strategy {
	return r.remote.Strategies()
}

// Resolve returns a mapping for company. It never fails: when the cache misses and every
// remote endpoint fails, the heuristic fallback answers.
func (r *Resolver) Resolve(ctx context.Context, company string) core.DomainMapping {
	if strings.TrimSpace(company) == "" {
		return r.fallback.Guess(company)
	}

	if mapping, ok := r.fromCache(ctx, company); ok {
		return mapping
	}

	if r.RemoteEnabled() {
		if mapping, ok := r.remote.Resolve(ctx, company); ok {
			mapping.Source = core.SourceRemote
			mapping.Confidence = clampConfidence(mapping.Confidence)
			r.store(ctx, company, mapping)
			return mapping
		}
		r.logger.Info("All remote endpoints failed, using fallback",
			zap.String("company", company),
			zap.Int("endpoints", r.remote.Len()))
	}

	return r.fallback.Guess(company)
}

func (r *Resolver) fromCache(ctx context.Context, company string) (core.DomainMapping, bool) {
	if r.cache == nil {
		return core.DomainMapping{}, false
	}

	cached, err := r.cache.Get(ctx, company)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			r.logger.Warn("Failed to read resolution cache", zap.String("company", company), zap.Error(err))
		}
		return core.DomainMapping{}, false
	}
	if cached.Domain == "" {
		return core.DomainMapping{}, false
	}

	r.logger.Debug("Cache hit for company", zap.String("company", company))
	mapping := *cached
	mapping.Source = core.SourceCache
	mapping.Confidence = clampConfidence(mapping.Confidence)
	if _, ok := core.ParseFormat(string(mapping.Format)); !ok {
		mapping.Format = core.DefaultFormat
	}
	return mapping, true
}

func (r *Resolver) store(ctx context.Context, company string, mapping core.DomainMapping) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, company, mapping); err != nil {
		r.logger.Error("Failed to update resolution cache", zap.String("company", company), zap.Error(err))
	}
}
