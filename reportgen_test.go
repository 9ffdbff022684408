package reportgen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/reportgen/ai"
	"github.com/poiesic/reportgen/ai/mock"
	"github.com/poiesic/reportgen/core"
	"github.com/poiesic/reportgen/report"
	"github.com/poiesic/reportgen/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest(reportType core.ReportType) *core.Request {
	return &core.Request{
		ReportType: reportType,
		Products: []core.Product{
			{Name: "mouse logit", Price: 35000, Cost: 10000, Stock: 10, Visible: true},
			{Name: "ipods q3", Price: 25000, Cost: 10000, Stock: 0, Visible: true},
		},
	}
}

func newMockService(t *testing.T, response string, opts ...Option) (*Service, *mock.MockProvider) {
	t.Helper()
	provider := mock.NewMockProvider(response).(*mock.MockProvider)
	svc, err := NewService(context.Background(), append([]Option{WithProvider(provider)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc, provider
}

// countProviderBuilds swaps buildProvider for a mock and counts calls.
func countProviderBuilds(t *testing.T, response string) *int {
	t.Helper()
	builds := 0
	original := buildProvider
	buildProvider = func(ctx context.Context, cfg *ai.Config) (ai.AIProvider, error) {
		builds++
		return mock.NewMockProvider(response), nil
	}
	t.Cleanup(func() { buildProvider = original })
	return &builds
}

func TestGenerateReport_MissingAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_GENAI_API_KEY", "")
	t.Setenv("REPORTGEN_BACKEND", "")
	builds := countProviderBuilds(t, `{"reportContent":"x"}`)

	rep, err := GenerateReport(context.Background(), testRequest(core.ReportTypeStock))
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Zero(t, *builds, "no client should be built without a key")
}

func TestGenerateReport_InvalidRequestBeforeKeyCheck(t *testing.T) {
	t.Setenv("GOOGLE_GENAI_API_KEY", "")
	t.Setenv("REPORTGEN_BACKEND", "")
	builds := countProviderBuilds(t, `{"reportContent":"x"}`)

	rep, err := GenerateReport(context.Background(), &core.Request{ReportType: "weekly"})
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, core.ErrInvalidRequest)
	assert.NotErrorIs(t, err, ErrMissingAPIKey)
	assert.Zero(t, *builds)
}

func TestGenerateReport_WithKey(t *testing.T) {
	t.Setenv("GOOGLE_GENAI_API_KEY", "test-key")
	t.Setenv("REPORTGEN_BACKEND", "")
	builds := countProviderBuilds(t, `{"reportContent":"## Stock"}`)

	rep, err := GenerateReport(context.Background(), testRequest(core.ReportTypeStock))
	require.NoError(t, err)
	assert.Equal(t, "## Stock", rep.Content)
	assert.Equal(t, 1, *builds)
}

func TestNewService_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *ai.Config
		wantErr error
	}{
		{"gemini without key", ai.NewConfig(), ai.ErrMissingAPIKey},
		{"openai without host", ai.NewConfig(ai.WithBackend(ai.BackendOpenAI)), ai.ErrHostRequired},
		{"unknown backend", ai.NewConfig(ai.WithBackend("bedrock")), ai.ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewService(context.Background(), WithConfig(tt.cfg))
			assert.Nil(t, svc)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewService_OpenAIBackend(t *testing.T) {
	cfg := ai.NewConfig(
		ai.WithBackend(ai.BackendOpenAI),
		ai.WithHost("http://localhost:11434"),
		ai.WithModel("qwen2.5:7b"),
	)
	svc, err := NewService(context.Background(), WithConfig(cfg))
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, "qwen2.5:7b", svc.Model())
	assert.Nil(t, svc.Archive())
}

func TestService_Generate(t *testing.T) {
	svc, provider := newMockService(t, `{"reportContent":"## Stock"}`)

	rep, err := svc.Generate(context.Background(), testRequest(core.ReportTypeStock))
	require.NoError(t, err)
	assert.Equal(t, "Reporte de Análisis de Stock", rep.Title)
	assert.Equal(t, "## Stock", rep.Content)
	assert.Empty(t, rep.ID)
	assert.Equal(t, 1, provider.GetMockGenerator().CallCount())
}

func TestService_GenerateModelError(t *testing.T) {
	modelErr := errors.New("quota exceeded")
	gen := mock.NewMockGenerator("").WithGenerateTextFunc(func(ctx context.Context, parts ...string) (string, error) {
		return "", modelErr
	})
	svc, err := NewService(context.Background(), WithProvider(mock.NewMockProviderWithGenerator(gen)))
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.Generate(context.Background(), testRequest(core.ReportTypePricing))
	assert.ErrorIs(t, err, report.ErrGenerationFailed)
	assert.ErrorIs(t, err, modelErr)
}

func TestService_GenerateArchives(t *testing.T) {
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer repo.Close()

	svc, _ := newMockService(t, "```json\n{\"reportContent\":\"## Catálogo\"}\n```", WithRepository(repo))

	req := testRequest(core.ReportTypeCatalog)
	rep, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, rep.ID)

	archived, err := repo.GetReport(context.Background(), rep.ID)
	require.NoError(t, err)
	assert.Equal(t, core.ReportTypeCatalog, archived.ReportType)
	assert.Equal(t, "## Catálogo", archived.Content)
	assert.Equal(t, string(report.ExtractionEmbedded), archived.Extraction)
	assert.Equal(t, mock.MockModel, archived.Model)
	assert.Equal(t, report.Fingerprint(req), archived.Fingerprint)
	assert.Equal(t, 2, archived.ProductCount)
}

func TestService_Cache(t *testing.T) {
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer repo.Close()

	svc, provider := newMockService(t, `{"reportContent":"primera"}`, WithRepository(repo), WithCache(true))
	ctx := context.Background()

	first, err := svc.Generate(ctx, testRequest(core.ReportTypeStock))
	require.NoError(t, err)

	second, err := svc.Generate(ctx, testRequest(core.ReportTypeStock))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "primera", second.Content)
	assert.Equal(t, 1, provider.GetMockGenerator().CallCount())

	// A different report type is a different prompt
	_, err = svc.Generate(ctx, testRequest(core.ReportTypeCatalog))
	require.NoError(t, err)
	assert.Equal(t, 2, provider.GetMockGenerator().CallCount())
}

func TestService_CacheIgnoresOtherModels(t *testing.T) {
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer repo.Close()

	req := testRequest(core.ReportTypeStock)
	_, err = repo.SaveReport(context.Background(), &core.ArchivedReport{
		ReportType:  core.ReportTypeStock,
		Title:       core.ReportTypeStock.Title(),
		Content:     "from another model",
		Model:       "gemini-1.5-pro",
		Fingerprint: report.Fingerprint(req),
	})
	require.NoError(t, err)

	svc, provider := newMockService(t, `{"reportContent":"fresh"}`, WithRepository(repo), WithCache(true))

	rep, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "fresh", rep.Content)
	assert.Equal(t, 1, provider.GetMockGenerator().CallCount())
}

func TestService_CacheDisabled(t *testing.T) {
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer repo.Close()

	svc, provider := newMockService(t, `{"reportContent":"x"}`, WithRepository(repo))

	_, err = svc.Generate(context.Background(), testRequest(core.ReportTypeStock))
	require.NoError(t, err)
	_, err = svc.Generate(context.Background(), testRequest(core.ReportTypeStock))
	require.NoError(t, err)
	assert.Equal(t, 2, provider.GetMockGenerator().CallCount())
}

func TestService_GenerateAll(t *testing.T) {
	svc, provider := newMockService(t, `{"reportContent":"ok"}`, WithPoolSize(2))

	results := svc.GenerateAll(context.Background(), testRequest("").Products)
	require.Len(t, results, 3)
	for i, reportType := range core.ReportTypes {
		require.NoError(t, results[i].Err)
		assert.Equal(t, reportType.Title(), results[i].Report.Title)
	}
	assert.Equal(t, 3, provider.GetMockGenerator().CallCount())
}

func TestService_WithArchivePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "archive")
	svc, _ := newMockService(t, `{"reportContent":"persisted"}`, WithArchive(dir))

	rep, err := svc.Generate(context.Background(), testRequest(core.ReportTypePricing))
	require.NoError(t, err)
	require.NotEmpty(t, rep.ID)
	require.NotNil(t, svc.Archive())

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestService_CloseKeepsCallerResources(t *testing.T) {
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer repo.Close()

	provider := mock.NewMockProvider(`{"reportContent":"x"}`).(*mock.MockProvider)
	svc, err := NewService(context.Background(), WithProvider(provider), WithRepository(repo))
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	assert.False(t, provider.Closed())
	_, err = repo.GetRecentReports(context.Background(), 1)
	assert.NoError(t, err)
}
