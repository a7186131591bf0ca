package resolver

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/core"
)

// Remote resolves a company by asking one inference endpoint
type Remote struct {
	client   core.InferenceClient
	prompts  *PromptBuilder
	recorder core.AttemptRecorder
	timeout  time.Duration
	logger   *zap.Logger
}

// NewRemote creates a Remote strategy for client. A zero timeout leaves the caller's
// deadline in charge.
func NewRemote(
	client core.InferenceClient,
	prompts *PromptBuilder,
	recorder core.AttemptRecorder,
	timeout time.Duration,
	logger *zap.Logger,
) *Remote {
	return &Remote{
		client:   client,
		prompts:  prompts,
		recorder: recorder,
		timeout:  timeout,
		logger:   logger,
	}
}

// Name implements Strategy
func (r *Remote) Name() string {
	return r.client.Name()
}

// Resolve implements Strategy. Transport errors, timeouts and malformed responses all
// count as a failed attempt.
func (r *Remote) Resolve(ctx context.Context, company string) (core.DomainMapping, bool) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := r.client.Complete(ctx, r.prompts.Build(company))

	var mapping core.DomainMapping
	if err == nil {
		mapping, err = ParseResponse(text)
		if err != nil {
			r.logger.Debug("Unusable model response",
				zap.String("endpoint", r.client.Name()),
				zap.String("response", text))
		}
	}

	attempt := core.Attempt{
		Company:  company,
		Endpoint: r.client.Name(),
		Err:      err,
		Duration: time.Since(start),
	}
	var endpointErr *core.EndpointError
	if errors.As(err, &endpointErr) {
		attempt.StatusCode = endpointErr.StatusCode
	}
	if r.recorder != nil {
		r.recorder.Record(ctx, attempt)
	}

	return mapping, err == nil
}
