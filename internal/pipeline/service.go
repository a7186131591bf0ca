// Package pipeline runs the lead workflow for one session: upload a CSV, resolve company
// domains, generate addresses and export the latest result.
package pipeline

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mikey/lead-email-generator/internal/core"
	"github.com/mikey/lead-email-generator/internal/leads"
)

// KeyCSVFile is the session key holding the path of the uploaded CSV
const KeyCSVFile = "csv_file"

const (
	probePrompt  = "Test"
	probeTimeout = 10 * time.Second
)

// CompanyResolver resolves a company to a domain mapping
type CompanyResolver interface {
	Resolve(ctx context.Context, company string) core.DomainMapping
	RemoteEnabled() bool
}

// ResultStore persists processed snapshots per session
type ResultStore interface {
	Save(ctx context.Context, sessionID string, leads []core.ProcessedLead) (string, error)
	Load(ctx context.Context, sessionID string) (*core.ResultSnapshot, error)
}

// Options tune the service
type Options struct {
	Limits         leads.FileLimits
	MaxBatchSize   int
	RateLimitDelay time.Duration
	PreviewRows    int
}

// Resolution is the mapping found for one company
type Resolution struct {
	Company string `json:"company"`
	core.DomainMapping
}

// Summary describes one generate run
type Summary struct {
	File            string               `json:"file"`
	Total           int                  `json:"total"`
	EmailsGenerated int                  `json:"emails_generated"`
	Preview         []core.ProcessedLead `json:"preview"`
}

// DownloadStatus tells whether an export is available for a session
type DownloadStatus struct {
	Ready       bool `json:"download_ready"`
	RecordCount int  `json:"record_count"`
}

// EndpointStatus is the outcome of probing one inference endpoint
type EndpointStatus struct {
	Endpoint   string        `json:"endpoint"`
	Available  bool          `json:"available"`
	StatusCode int           `json:"status_code,omitempty"`
	Error      string        `json:"error,omitempty"`
	Latency    time.Duration `json:"latency"`
}

// Service is the session-scoped lead workflow
type Service struct {
	resolver CompanyResolver
	sessions core.SessionStore
	store    ResultStore
	clients  []core.InferenceClient
	opts     Options
	logger   *zap.Logger
}

// NewService creates a new pipeline service
func NewService(
	resolver CompanyResolver,
	sessions core.SessionStore,
	store ResultStore,
	clients []core.InferenceClient,
	opts Options,
	logger *zap.Logger,
) *Service {
	return &Service{
		resolver: resolver,
		sessions: sessions,
		store:    store,
		clients:  clients,
		opts:     opts,
		logger:   logger,
	}
}

// Upload parses the CSV at path and remembers it for the session
func (s *Service) Upload(ctx context.Context, sessionID, path string) (core.Stats, error) {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return core.Stats{}, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return core.Stats{}, eris.Wrapf(err, "pipeline: resolve path %s", path)
	}

	batch, err := leads.ParseFile(abs, s.opts.Limits)
	if err != nil {
		return core.Stats{}, err
	}

	if err := s.sessions.Set(ctx, sessionID, KeyCSVFile, []byte(abs)); err != nil {
		return core.Stats{}, eris.Wrap(err, "pipeline: remember uploaded file")
	}

	stats := batch.Stats()
	s.logger.Info("Parsed upload",
		zap.String("session", sessionID),
		zap.String("file", abs),
		zap.Int("leads", stats.TotalLeads),
		zap.Int("companies", stats.UniqueCompanies))
	return stats, nil
}

// Companies returns the company names of the session's upload in first-seen order
func (s *Service) Companies(ctx context.Context, sessionID string) ([]string, error) {
	batch, err := s.sessionBatch(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return batch.CompanyNames(), nil
}

// ResolveCompanies resolves each company in order, waiting between successive remote
// lookups. At most MaxBatchSize companies are resolved.
func (s *Service) ResolveCompanies(ctx context.Context, companies []string) ([]Resolution, error) {
	if s.opts.MaxBatchSize > 0 && len(companies) > s.opts.MaxBatchSize {
		s.logger.Warn("Batch exceeds maximum size, truncating",
			zap.Int("requested", len(companies)),
			zap.Int("max", s.opts.MaxBatchSize))
		companies = companies[:s.opts.MaxBatchSize]
	}

	limiter := rate.NewLimiter(rate.Every(s.opts.RateLimitDelay), 1)
	remote := s.resolver.RemoteEnabled()

	results := make([]Resolution, 0, len(companies))
	var previous core.Source
	for _, company := range companies {
		if remote && previous != core.SourceCache {
			if err := limiter.Wait(ctx); err != nil {
				return results, eris.Wrap(err, "pipeline: rate limit wait")
			}
		}

		mapping := s.resolver.Resolve(ctx, company)
		results = append(results, Resolution{Company: company, DomainMapping: mapping})
		previous = mapping.Source
	}
	return results, nil
}

// Generate rebuilds the session's upload, synthesizes addresses and saves the snapshot
func (s *Service) Generate(
	ctx context.Context,
	sessionID string,
	mappings map[string]core.MappingInput,
	excluded []string,
) (*Summary, error) {
	batch, err := s.sessionBatch(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	processed := batch.Process(mappings, excluded)
	name, err := s.store.Save(ctx, sessionID, processed)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		File:            name,
		Total:           len(processed),
		EmailsGenerated: leads.CountEmails(processed),
		Preview:         processed[:min(len(processed), max(s.opts.PreviewRows, 0))],
	}
	s.logger.Info("Generated emails",
		zap.String("session", sessionID),
		zap.Int("total", summary.Total),
		zap.Int("emails", summary.EmailsGenerated))
	return summary, nil
}

// Export writes the session's latest snapshot as CSV. It returns core.ErrNoData when
// nothing has been generated.
func (s *Service) Export(ctx context.Context, sessionID string, w io.Writer) (int, error) {
	snapshot, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if err := leads.WriteExport(w, snapshot.Leads); err != nil {
		return 0, err
	}
	return len(snapshot.Leads), nil
}

// DownloadStatus reports whether an export is ready for the session
func (s *Service) DownloadStatus(ctx context.Context, sessionID string) (DownloadStatus, error) {
	snapshot, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, core.ErrNoData) {
		return DownloadStatus{}, nil
	}
	if err != nil {
		return DownloadStatus{}, err
	}
	return DownloadStatus{Ready: true, RecordCount: len(snapshot.Leads)}, nil
}

// CheckEndpoints sends a short prompt to every configured endpoint
func (s *Service) CheckEndpoints(ctx context.Context) []EndpointStatus {
	statuses := make([]EndpointStatus, 0, len(s.clients))
	for _, client := range s.clients {
		statuses = append(statuses, s.probe(ctx, client))
	}
	return statuses
}

func (s *Service) probe(ctx context.Context, client core.InferenceClient) EndpointStatus {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	_, err := client.Complete(ctx, probePrompt)
	status := EndpointStatus{
		Endpoint:  client.Name(),
		Available: err == nil,
		Latency:   time.Since(start),
	}
	if err != nil {
		status.Error = err.Error()
		var endpointErr *core.EndpointError
		if errors.As(err, &endpointErr) {
			status.StatusCode = endpointErr.StatusCode
		}
		s.logger.Warn("Endpoint check failed", zap.String("endpoint", status.Endpoint), zap.Error(err))
	}
	return status
}

func (s *Service) sessionBatch(ctx context.Context, sessionID string) (*leads.Batch, error) {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}

	path, err := s.sessions.Get(ctx, sessionID, KeyCSVFile)
	if errors.Is(err, core.ErrNotFound) {
		return nil, eris.New("pipeline: no CSV file in session")
	}
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: read session")
	}

	return leads.ParseFile(string(path), s.opts.Limits)
}
