// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reportgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/poiesic/reportgen/ai"
	"github.com/poiesic/reportgen/ai/googleai"
	"github.com/poiesic/reportgen/ai/openai"
	"github.com/poiesic/reportgen/batch"
	"github.com/poiesic/reportgen/core"
	"github.com/poiesic/reportgen/report"
	"github.com/poiesic/reportgen/storage"
	"github.com/poiesic/reportgen/storage/badger"
)

// ErrMissingAPIKey is returned when the Google AI backend is selected and
// no API key is configured.
var ErrMissingAPIKey = ai.ErrMissingAPIKey

// Service generates reports and, when an archive is configured, keeps them.
// It is safe for concurrent use.
type Service struct {
	provider     ai.AIProvider
	ownsProvider bool
	generator    *report.Generator
	repo         storage.ReportRepository
	ownsRepo     bool
	runner       *batch.Runner
	cache        bool
	logger       *slog.Logger
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	aiConfig    *ai.Config
	provider    ai.AIProvider
	archivePath string
	repo        storage.ReportRepository
	cache       bool
	logger      *slog.Logger
	poolSize    int
}

// WithConfig sets the model configuration used to build the provider.
// Ignored when WithProvider is given.
func WithConfig(cfg *ai.Config) Option {
	return func(o *serviceOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider supplies a ready provider. The caller keeps ownership and
// Service.Close does not close it.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithArchive opens a BadgerDB report archive at path.
func WithArchive(path string) Option {
	return func(o *serviceOptions) {
		o.archivePath = path
	}
}

// WithRepository supplies an open archive. The caller keeps ownership.
func WithRepository(repo storage.ReportRepository) Option {
	return func(o *serviceOptions) {
		o.repo = repo
	}
}

// WithCache returns archived reports for requests whose prompt was already
// answered by the same model instead of calling the model again.
// Has no effect without an archive.
func WithCache(enabled bool) Option {
	return func(o *serviceOptions) {
		o.cache = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithPoolSize sets the number of concurrent generations in GenerateAll.
func WithPoolSize(size int) Option {
	return func(o *serviceOptions) {
		o.poolSize = size
	}
}

// NewService creates a Service. Without WithProvider a provider is built
// from the configuration, which defaults to ai.DefaultConfig.
func NewService(ctx context.Context, opts ...Option) (*Service, error) {
	options := &serviceOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
		poolSize: len(core.ReportTypes),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.poolSize < 1 {
		options.poolSize = runtime.NumCPU() / 2
	}

	s := &Service{
		provider: options.provider,
		repo:     options.repo,
		cache:    options.cache,
		logger:   options.logger.With("component", "reportgen"),
	}

	if s.provider == nil {
		provider, err := newProvider(ctx, options.aiConfig)
		if err != nil {
			return nil, err
		}
		s.provider = provider
		s.ownsProvider = true
	}

	if s.repo == nil && options.archivePath != "" {
		repo, err := badger.NewRepository(options.archivePath)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("opening archive: %w", err)
		}
		s.repo = repo
		s.ownsRepo = true
	}

	generator, err := report.NewGenerator(s.provider.Generator())
	if err != nil {
		s.Close()
		return nil, err
	}
	s.generator = generator

	runner, err := batch.NewRunner(s, batch.WithPoolSize(options.poolSize), batch.WithLogger(options.logger))
	if err != nil {
		s.Close()
		return nil, err
	}
	s.runner = runner

	return s, nil
}

// newProvider builds the provider selected by cfg.Backend.
func newProvider(ctx context.Context, cfg *ai.Config) (ai.AIProvider, error) {
	if cfg == nil {
		cfg = ai.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return buildProvider(ctx, cfg)
}

// buildProvider constructs the client for an already validated config.
var buildProvider = func(ctx context.Context, cfg *ai.Config) (ai.AIProvider, error) {
	switch cfg.Backend {
	case ai.BackendOpenAI:
		return openai.NewProvider(cfg)
	default:
		return googleai.NewProvider(ctx, cfg)
	}
}

// Generate produces one report. With an archive the report is stored and
// its ID set; with caching a stored answer to the same prompt from the
// same model is returned without a model call. An archive write failure is
// logged and the report is still returned, without an ID.
func (s *Service) Generate(ctx context.Context, req *core.Request) (*core.Report, error) {
	if s.cache && s.repo != nil {
		if cached := s.cached(ctx, req); cached != nil {
			return cached, nil
		}
	}

	result, err := s.generator.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.repo == nil {
		return result.Report, nil
	}

	archived, err := s.repo.SaveReport(ctx, &core.ArchivedReport{
		ReportType:   result.ReportType,
		Title:        result.Report.Title,
		Content:      result.Report.Content,
		Extraction:   string(result.Extraction),
		Model:        s.provider.Model(),
		Fingerprint:  result.Fingerprint,
		ProductCount: len(req.Products),
	})
	if err != nil {
		s.logger.Error("failed to archive report", "type", result.ReportType, "err", err)
		return result.Report, nil
	}
	result.Report.ID = archived.ID
	return result.Report, nil
}

// cached returns the archived report for req, or nil on a miss.
func (s *Service) cached(ctx context.Context, req *core.Request) *core.Report {
	if core.ValidateRequest(req) != nil {
		return nil
	}
	normalized := &core.Request{ReportType: req.ReportType.Normalize(), Products: req.Products}

	archived, err := s.repo.FindByFingerprint(ctx, report.Fingerprint(normalized))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("cache lookup failed", "err", err)
		}
		return nil
	}
	if archived.Model != s.provider.Model() {
		return nil
	}

	s.logger.Debug("serving archived report", "id", archived.ID, "type", archived.ReportType)
	return archived.Report()
}

// GenerateAll produces one report per type for the same products
// concurrently. With no types every supported type is generated.
// Results follow the order of types.
func (s *Service) GenerateAll(ctx context.Context, products []core.Product, types ...core.ReportType) []batch.Result {
	return s.runner.Run(ctx, products, types...)
}

// Archive returns the report archive, or nil when none is configured.
func (s *Service) Archive() storage.ReportRepository {
	return s.repo
}

// Model returns the identifier of the model behind the service.
func (s *Service) Model() string {
	return s.provider.Model()
}

// Close releases the worker pool and closes whatever the service opened
// itself. Providers and repositories passed in by the caller stay open.
func (s *Service) Close() error {
	if s.runner != nil {
		s.runner.Release()
	}

	var errs []error
	if s.ownsRepo && s.repo != nil {
		if err := s.repo.Close(); err != nil {
			s.logger.Error("error closing archive", "err", err)
			errs = append(errs, err)
		}
	}
	if s.ownsProvider && s.provider != nil {
		if err := s.provider.Close(); err != nil {
			s.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GenerateReport generates a single report with the configuration found in
// the process environment (GOOGLE_GENAI_API_KEY, REPORTGEN_BACKEND,
// REPORTGEN_MODEL, REPORTGEN_HOST). The request is validated first; a valid
// request fails with ErrMissingAPIKey before any client is built when the
// Gemini backend has no key.
func GenerateReport(ctx context.Context, req *core.Request) (*core.Report, error) {
	if err := core.ValidateRequest(req); err != nil {
		return nil, err
	}

	cfg, err := ai.LoadConfig("")
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	svc, err := NewService(ctx, WithConfig(cfg))
	if err != nil {
		return nil, err
	}
	defer svc.Close()

	return svc.Generate(ctx, req)
}
