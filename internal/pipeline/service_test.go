package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/adapters/session"
	"github.com/mikey/lead-email-generator/internal/core"
	"github.com/mikey/lead-email-generator/internal/leads"
	"github.com/mikey/lead-email-generator/internal/resolver"
	"github.com/mikey/lead-email-generator/internal/results"
)

const leadsCSV = `First Name,Last Name,Company,Title
François,Müller,Acme GmbH,CEO
Jane,Doe,Tech Startup Labs,CTO
Bob,Short,Acme GmbH
Max,Mustermann,Acme GmbH,Engineer
`

type fakeResolver struct {
	remote  bool
	sources map[string]core.Source
	calls   []time.Time
}

func (r *fakeResolver) RemoteEnabled() bool { return r.remote }

func (r *fakeResolver) Resolve(_ context.Context, company string) core.DomainMapping {
	r.calls = append(r.calls, time.Now())
	source, ok := r.sources[company]
	if !ok {
		source = core.SourceRemote
	}
	return core.DomainMapping{Domain: "example.com", Format: core.DefaultFormat, Confidence: 70, Source: source}
}

type fakeClient struct {
	name string
	err  error
}

func (c *fakeClient) Name() string { return c.name }

func (c *fakeClient) Complete(context.Context, string) (string, error) {
	return `{"domain":"ok.com"}`, c.err
}

func newTestService(t *testing.T, res CompanyResolver, opts Options, clients ...core.InferenceClient) *Service {
	t.Helper()
	logger := zap.NewNop()
	sessions := session.NewMemoryStore(logger, time.Hour, 0)
	store, err := results.NewStore(t.TempDir(), sessions, results.Options{MaxSessionRecords: 1000, Retention: time.Hour}, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Stop()
		sessions.Stop()
	})
	if res == nil {
		res = resolver.NewResolver(nil, nil, logger)
	}
	return NewService(res, sessions, store, clients, opts, logger)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func defaultOptions() Options {
	return Options{
		Limits:       leads.FileLimits{MaxSize: 1 << 20, AllowedExtensions: []string{"csv", "txt"}},
		MaxBatchSize: 50,
		PreviewRows:  10,
	}
}

func TestService_UploadReportsStats(t *testing.T) {
	svc := newTestService(t, nil, defaultOptions())

	stats, err := svc.Upload(context.Background(), "s1", writeCSV(t, leadsCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalLeads)
	assert.Equal(t, 2, stats.UniqueCompanies)
	assert.Equal(t, []core.CompanyCount{
		{Name: "Acme GmbH", LeadCount: 2},
		{Name: "Tech Startup Labs", LeadCount: 1},
	}, stats.Companies)

	companies, err := svc.Companies(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme GmbH", "Tech Startup Labs"}, companies)
}

func TestService_UploadRejectsBadInput(t *testing.T) {
	svc := newTestService(t, nil, defaultOptions())
	ctx := context.Background()

	_, err := svc.Upload(ctx, "s1", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	xlsx := filepath.Join(t.TempDir(), "leads.xlsx")
	require.NoError(t, os.WriteFile(xlsx, []byte(leadsCSV), 0o644))
	_, err = svc.Upload(ctx, "s1", xlsx)
	assert.Error(t, err)

	_, err = svc.Upload(ctx, "../etc", writeCSV(t, leadsCSV))
	assert.True(t, errors.Is(err, core.ErrInvalidSession))
}

func TestService_ResolveUsesFallbackWithoutEndpoints(t *testing.T) {
	svc := newTestService(t, nil, defaultOptions())

	resolved, err := svc.ResolveCompanies(context.Background(), []string{"Tech Startup Labs"})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "Tech Startup Labs", resolved[0].Company)
	assert.Equal(t, "techstartuplabs.com", resolved[0].Domain)
	assert.Equal(t, core.FormatFirst, resolved[0].Format)
	assert.Equal(t, core.SourceFallback, resolved[0].Source)
}

func TestService_ResolveCapsBatchSize(t *testing.T) {
	opts := defaultOptions()
	opts.MaxBatchSize = 2
	svc := newTestService(t, nil, opts)

	resolved, err := svc.ResolveCompanies(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.Len(t, resolved, 2)
}

func TestService_ResolveWaitsBetweenRemoteCalls(t *testing.T) {
	opts := defaultOptions()
	opts.RateLimitDelay = 40 * time.Millisecond
	res := &fakeResolver{remote: true, sources: map[string]core.Source{}}
	svc := newTestService(t, res, opts)

	_, err := svc.ResolveCompanies(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)
	require.Len(t, res.calls, 3)
	assert.GreaterOrEqual(t, res.calls[1].Sub(res.calls[0]), 30*time.Millisecond)
	assert.GreaterOrEqual(t, res.calls[2].Sub(res.calls[1]), 30*time.Millisecond)
}

func TestService_ResolveSkipsWaitAfterCacheHit(t *testing.T) {
	opts := defaultOptions()
	opts.RateLimitDelay = time.Second
	res := &fakeResolver{remote: true, sources: map[string]core.Source{"A": core.SourceCache}}
	svc := newTestService(t, res, opts)

	start := time.Now()
	_, err := svc.ResolveCompanies(context.Background(), []string{"A", "B"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestService_ResolveStopsOnCancel(t *testing.T) {
	opts := defaultOptions()
	opts.RateLimitDelay = time.Hour
	res := &fakeResolver{remote: true, sources: map[string]core.Source{}}
	svc := newTestService(t, res, opts)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	resolved, err := svc.ResolveCompanies(ctx, []string{"A", "B"})
	assert.Error(t, err)
	assert.Len(t, resolved, 1)
}

func TestService_GenerateAndExport(t *testing.T) {
	svc := newTestService(t, nil, defaultOptions())
	ctx := context.Background()

	_, err := svc.Upload(ctx, "s1", writeCSV(t, leadsCSV))
	require.NoError(t, err)

	mappings := map[string]core.MappingInput{
		"Acme GmbH": {Domain: "acme.de", Format: "f.lastname"},
	}
	summary, err := svc.Generate(ctx, "s1", mappings, []string{"Tech Startup Labs"})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.EmailsGenerated)
	assert.Equal(t, "f.muller@acme.de", summary.Preview[0].Email)
	assert.Equal(t, "m.mustermann@acme.de", summary.Preview[1].Email)

	status, err := svc.DownloadStatus(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, status.Ready)
	assert.Equal(t, 2, status.RecordCount)

	var buf bytes.Buffer
	n, err := svc.Export(ctx, "s1", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := leads.ReadExport(&buf)
	require.NoError(t, err)
	assert.Equal(t, summary.Preview, rows)
}

func TestService_GeneratePreviewIsLimited(t *testing.T) {
	opts := defaultOptions()
	opts.PreviewRows = 1
	svc := newTestService(t, nil, opts)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "s1", writeCSV(t, leadsCSV))
	require.NoError(t, err)

	summary, err := svc.Generate(ctx, "s1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 0, summary.EmailsGenerated)
	assert.Len(t, summary.Preview, 1)
}

func TestService_GenerateWithoutUpload(t *testing.T) {
	svc := newTestService(t, nil, defaultOptions())

	_, err := svc.Generate(context.Background(), "s1", nil, nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no CSV file"))
}

func TestService_ExportWithoutData(t *testing.T) {
	svc := newTestService(t, nil, defaultOptions())
	ctx := context.Background()

	_, err := svc.Export(ctx, "s1", &bytes.Buffer{})
	assert.True(t, errors.Is(err, core.ErrNoData))

	status, err := svc.DownloadStatus(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, status.Ready)
	assert.Zero(t, status.RecordCount)
}

func TestService_CheckEndpoints(t *testing.T) {
	ok := &fakeClient{name: "gemini:gemini-pro"}
	failing := &fakeClient{
		name: "openai:gpt-4o-mini",
		err:  &core.EndpointError{Endpoint: "openai:gpt-4o-mini", StatusCode: 401, Err: errors.New("unauthorized")},
	}
	svc := newTestService(t, nil, defaultOptions(), ok, failing)

	statuses := svc.CheckEndpoints(context.Background())
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Available)
	assert.Equal(t, "gemini:gemini-pro", statuses[0].Endpoint)
	assert.False(t, statuses[1].Available)
	assert.Equal(t, 401, statuses[1].StatusCode)
	assert.NotEmpty(t, statuses[1].Error)
}
