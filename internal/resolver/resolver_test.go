package resolver

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/core"
	"github.com/mikey/lead-email-generator/internal/utils"
)

type fakeClient struct {
	name     string
	response string
	err      error
	delay    time.Duration
	calls    int
	prompts  []string
}

func (f *fakeClient) Name() string { return f.name }

func (f *fakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", &core.EndpointError{Endpoint: f.name, Err: ctx.Err()}
		}
	}
	return f.response, f.err
}

type fakeRecorder struct {
	mu       sync.Mutex
	attempts []core.Attempt
}

func (r *fakeRecorder) Record(_ context.Context, a core.Attempt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, a)
}

type fakeCache struct {
	entries map[string]core.DomainMapping
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]core.DomainMapping)}
}

func (c *fakeCache) Get(_ context.Context, company string) (*core.DomainMapping, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	m, ok := c.entries[company]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &m, nil
}

func (c *fakeCache) Set(_ context.Context, company string, m core.DomainMapping) error {
	c.sets++
	c.entries[company] = m
	return nil
}

func (c *fakeCache) Delete(_ context.Context, company string) error {
	delete(c.entries, company)
	return nil
}

func (c *fakeCache) Cleanup(context.Context) error { return nil }

func newTestResolver(cache core.ResolutionCache, recorder core.AttemptRecorder, clients ...*fakeClient) *Resolver {
	logger := zap.NewNop()
	prompts := NewPromptBuilder(utils.NewTextProcessor(logger))

	strategies := make([]Strategy, 0, len(clients))
	for _, c := range clients {
		strategies = append(strategies, NewRemote(c, prompts, recorder, 50*time.Millisecond, logger))
	}
	return NewResolver(cache, NewChain(logger, strategies...), logger)
}

func TestResolve_FallbackWhenRemoteDisabled(t *testing.T) {
	r := newTestResolver(nil, nil)
	assert.False(t, r.RemoteEnabled())

	got := r.Resolve(context.Background(), "Tech Startup Labs")
	assert.Equal(t, core.DomainMapping{
		Domain:     "techstartuplabs.com",
		Format:     core.FormatFirst,
		Confidence: FallbackConfidence,
		Source:     core.SourceFallback,
	}, got)
}

func TestResolve_RemoteSuccessIsCached(t *testing.T) {
	cache := newFakeCache()
	client := &fakeClient{name: "primary", response: `{"domain":"acme.de","format":"f.lastname","confidence":88}`}
	r := newTestResolver(cache, nil, client)

	got := r.Resolve(context.Background(), "Acme GmbH")
	assert.Equal(t, core.DomainMapping{Domain: "acme.de", Format: core.FormatInitialDotLast, Confidence: 88, Source: core.SourceRemote}, got)
	assert.Equal(t, 1, cache.sets)

	again := r.Resolve(context.Background(), "Acme GmbH")
	assert.Equal(t, core.SourceCache, again.Source)
	assert.Equal(t, "acme.de", again.Domain)
	assert.Equal(t, 1, client.calls)
}

func TestResolve_EndpointsFallThroughInOrder(t *testing.T) {
	recorder := &fakeRecorder{}
	primary := &fakeClient{name: "primary", err: &core.EndpointError{Endpoint: "primary", StatusCode: 429, Err: errors.New("quota")}}
	garbled := &fakeClient{name: "garbled", response: "I could not find it"}
	stable := &fakeClient{name: "stable", response: `{"domain":"globex.com"}`}
	unused := &fakeClient{name: "unused", response: `{"domain":"wrong.com"}`}
	r := newTestResolver(nil, recorder, primary, garbled, stable, unused)

	got := r.Resolve(context.Background(), "Globex")
	assert.Equal(t, "globex.com", got.Domain)
	assert.Equal(t, core.FormatFirstDotLast, got.Format)
	assert.Equal(t, 70, got.Confidence)
	assert.Equal(t, core.SourceRemote, got.Source)

	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, garbled.calls)
	assert.Equal(t, 1, stable.calls)
	assert.Zero(t, unused.calls)

	require.Len(t, recorder.attempts, 3)
	assert.Equal(t, "primary", recorder.attempts[0].Endpoint)
	assert.Equal(t, 429, recorder.attempts[0].StatusCode)
	assert.False(t, recorder.attempts[0].Succeeded())
	assert.ErrorIs(t, recorder.attempts[1].Err, ErrMalformedResponse)
	assert.True(t, recorder.attempts[2].Succeeded())
	assert.Equal(t, "Globex", recorder.attempts[2].Company)
}

func TestResolve_AllEndpointsFail(t *testing.T) {
	cache := newFakeCache()
	slow := &fakeClient{name: "slow", response: `{"domain":"late.com"}`, delay: time.Second}
	broken := &fakeClient{name: "broken", err: errors.New("connection refused")}
	r := newTestResolver(cache, nil, slow, broken)

	got := r.Resolve(context.Background(), "Smith Legal LLP")
	assert.Equal(t, core.SourceFallback, got.Source)
	assert.Equal(t, "smithlegal.com", got.Domain)
	assert.Equal(t, core.FormatInitialDotLast, got.Format)
	assert.Zero(t, cache.sets, "fallback results are not cached")
}

func TestResolve_CacheErrorFallsThrough(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("database is locked")
	client := &fakeClient{name: "primary", response: `{"domain":"initech.com","format":"firstname"}`}
	r := newTestResolver(cache, nil, client)

	got := r.Resolve(context.Background(), "Initech")
	assert.Equal(t, core.SourceRemote, got.Source)
	assert.Equal(t, 1, client.calls)
}

func TestResolve_CachedEntryIsNormalized(t *testing.T) {
	cache := newFakeCache()
	cache.entries["Initech"] = core.DomainMapping{Domain: "initech.com", Format: "bogus", Confidence: 400, Source: core.SourceRemote}
	r := newTestResolver(cache, nil)

	got := r.Resolve(context.Background(), "Initech")
	assert.Equal(t, core.DomainMapping{Domain: "initech.com", Format: core.DefaultFormat, Confidence: 100, Source: core.SourceCache}, got)
}

func TestResolve_DegenerateNames(t *testing.T) {
	client := &fakeClient{name: "primary", response: `{"domain":"x.com"}`}
	r := newTestResolver(newFakeCache(), nil, client)

	for _, name := range []string{"", "   ", "\t\n"} {
		got := r.Resolve(context.Background(), name)
		assert.Equal(t, "example.com", got.Domain)
		assert.Equal(t, core.SourceFallback, got.Source)
	}
	assert.Zero(t, client.calls)
}

func TestResolve_ConfidenceAlwaysInRange(t *testing.T) {
	responses := []string{
		`{"domain":"a.com","confidence":-50}`,
		`{"domain":"a.com","confidence":1e9}`,
		`{"domain":"a.com","confidence":"NaN"}`,
		`{"domain":"a.com"}`,
		`garbage`,
	}
	for _, resp := range responses {
		r := newTestResolver(nil, nil, &fakeClient{name: "p", response: resp})
		got := r.Resolve(context.Background(), "Acme")
		assert.GreaterOrEqual(t, got.Confidence, 0, resp)
		assert.LessOrEqual(t, got.Confidence, 100, resp)
	}
}

func TestResolve_PromptQuotesSanitizedCompany(t *testing.T) {
	client := &fakeClient{name: "primary", response: `{"domain":"oreilly.com"}`}
	r := newTestResolver(nil, nil, client)

	r.Resolve(context.Background(), "O'Reilly\nMedia")
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "For the company 'OReilly Media'")
	assert.Contains(t, client.prompts[0], "firstname_lastname")
}
