package core

import (
	"context"
)

// InferenceClient is one remote inference endpoint able to answer a prompt
type InferenceClient interface {
	// Name identifies the endpoint in logs and health checks
	Name() string

	// Complete sends the prompt and returns the raw model text.
	// Failures are returned as *EndpointError.
	Complete(ctx context.Context, prompt string) (string, error)
}

// ResolutionCache stores domain mappings keyed by company name
type ResolutionCache interface {
	// Get retrieves a cached mapping, returning ErrNotFound on a miss
	Get(ctx context.Context, company string) (*DomainMapping, error)

	// Set stores a mapping for a company
	Set(ctx context.Context, company string, mapping DomainMapping) error

	// Delete removes a cached mapping
	Delete(ctx context.Context, company string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

// SessionStore is a key-value store partitioned by session identifier
type SessionStore interface {
	// Get returns the value for key in session, or ErrNotFound
	Get(ctx context.Context, sessionID, key string) ([]byte, error)

	// Set stores value under key in session
	Set(ctx context.Context, sessionID, key string, value []byte) error

	// Delete removes key from session
	Delete(ctx context.Context, sessionID, key string) error

	// Cleanup removes expired session entries
	Cleanup(ctx context.Context) error
}

// AttemptRecorder observes remote inference attempts
type AttemptRecorder interface {
	Record(ctx context.Context, attempt Attempt)
}
