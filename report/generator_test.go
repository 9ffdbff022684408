package report

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/reportgen/ai/mock"
	"github.com/poiesic/reportgen/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator_RequiresGenerator(t *testing.T) {
	gen, err := NewGenerator(nil)
	assert.Nil(t, gen)
	assert.ErrorIs(t, err, ErrGeneratorRequired)
}

func TestGenerator_Generate(t *testing.T) {
	tests := []struct {
		name       string
		reportType core.ReportType
		response   string
		wantTitle  string
		wantBody   string
	}{
		{
			name:       "stock with clean json",
			reportType: core.ReportTypeStock,
			response:   `{"reportContent":"## Stock"}`,
			wantTitle:  "Reporte de Análisis de Stock",
			wantBody:   "## Stock",
		},
		{
			name:       "catalog with fenced json",
			reportType: core.ReportTypeCatalog,
			response:   "```json\n{\"reportContent\":\"## Catálogo\"}\n```",
			wantTitle:  "Reporte de Análisis de Catálogo",
			wantBody:   "## Catálogo",
		},
		{
			name:       "pricing with prose around json",
			reportType: core.ReportTypePricing,
			response:   `Aquí está: {"reportContent":"X"} Fin`,
			wantTitle:  "Reporte de Precios y Márgenes",
			wantBody:   "X",
		},
		{
			name:       "empty type falls back to pricing",
			reportType: "",
			response:   `{"reportContent":"Y"}`,
			wantTitle:  "Reporte de Precios y Márgenes",
			wantBody:   "Y",
		},
		{
			name:       "raw markdown response",
			reportType: core.ReportTypeStock,
			response:   "## Reporte\nSin JSON",
			wantTitle:  "Reporte de Análisis de Stock",
			wantBody:   "## Reporte\nSin JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockGen := mock.NewMockGenerator(tt.response)
			gen, err := NewGenerator(mockGen)
			require.NoError(t, err)

			rep, err := gen.Generate(context.Background(), &core.Request{
				ReportType: tt.reportType,
				Products:   sampleProducts(),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, rep.Title)
			assert.Equal(t, tt.wantBody, rep.Content)
			assert.Equal(t, 1, mockGen.CallCount())
		})
	}
}

func TestGenerator_SendsGuardThenPrompt(t *testing.T) {
	mockGen := mock.NewMockGenerator(`{"reportContent":"ok"}`)
	gen, err := NewGenerator(mockGen)
	require.NoError(t, err)

	req := &core.Request{ReportType: core.ReportTypeCatalog, Products: sampleProducts()}
	result, err := gen.Run(context.Background(), req)
	require.NoError(t, err)

	parts := mockGen.LastParts()
	require.Len(t, parts, 2)
	assert.Equal(t, GuardPrompt, parts[0])
	assert.Equal(t, BuildPrompt(req), parts[1])

	assert.Equal(t, parts[1], result.Prompt)
	assert.Equal(t, `{"reportContent":"ok"}`, result.Raw)
	assert.Equal(t, ExtractionJSON, result.Extraction)
	assert.Equal(t, core.ReportTypeCatalog, result.ReportType)
	assert.Equal(t, Fingerprint(req), result.Fingerprint)
}

func TestGenerator_ModelError(t *testing.T) {
	modelErr := errors.New("upstream unavailable")
	mockGen := mock.NewMockGenerator("").WithGenerateTextFunc(func(ctx context.Context, parts ...string) (string, error) {
		return "", modelErr
	})
	gen, err := NewGenerator(mockGen)
	require.NoError(t, err)

	rep, err := gen.Generate(context.Background(), &core.Request{Products: sampleProducts()})
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, modelErr)
}

func TestGenerator_InvalidRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *core.Request
		wantErr error
	}{
		{"nil request", nil, core.ErrInvalidRequest},
		{"unknown type", &core.Request{ReportType: "weekly"}, core.ErrInvalidReportType},
		{"negative price", &core.Request{Products: []core.Product{{Name: "x", Price: -1}}}, core.ErrInvalidPrice},
		{"empty name", &core.Request{Products: []core.Product{{Price: 1}}}, core.ErrEmptyProductName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockGen := mock.NewMockGenerator(`{"reportContent":"unused"}`)
			gen, err := NewGenerator(mockGen)
			require.NoError(t, err)

			_, err = gen.Generate(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, mockGen.CallCount(), "model must not be called for invalid input")
		})
	}
}

func TestGenerator_EmptyProductList(t *testing.T) {
	mockGen := mock.NewMockGenerator(`{"reportContent":"vacío"}`)
	gen, err := NewGenerator(mockGen)
	require.NoError(t, err)

	rep, err := gen.Generate(context.Background(), &core.Request{ReportType: core.ReportTypeStock})
	require.NoError(t, err)
	assert.Equal(t, "vacío", rep.Content)
}

func TestGenerator_DoesNotMutateRequest(t *testing.T) {
	gen, err := NewGenerator(mock.NewMockGenerator(`{"reportContent":"ok"}`))
	require.NoError(t, err)

	req := &core.Request{Products: sampleProducts()}
	_, err = gen.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, core.ReportType(""), req.ReportType)
}
