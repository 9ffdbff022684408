package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/reportgen/ai"
	"github.com/poiesic/reportgen/core"
	"github.com/poiesic/reportgen/metrics"
)

// Generator produces reports with a single model call per request.
// It is safe for concurrent use when the underlying TextGenerator is.
type Generator struct {
	generator ai.TextGenerator
	logger    *slog.Logger
}

// Result carries a generated report together with how it was produced.
type Result struct {
	Report      *core.Report
	ReportType  core.ReportType
	Prompt      string
	Raw         string
	Extraction  Extraction
	Fingerprint core.ID
	Duration    time.Duration
}

// NewGenerator creates a report generator backed by gen.
func NewGenerator(gen ai.TextGenerator) (*Generator, error) {
	if gen == nil {
		return nil, ErrGeneratorRequired
	}
	return &Generator{
		generator: gen,
		logger:    slog.Default().With("component", "report-generator"),
	}, nil
}

// Generate validates req, calls the model once and returns the report.
// An empty report type is treated as pricing.
func (g *Generator) Generate(ctx context.Context, req *core.Request) (*core.Report, error) {
	result, err := g.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return result.Report, nil
}

// Run is Generate with the prompt, raw model output and extraction stage
// kept alongside the report.
func (g *Generator) Run(ctx context.Context, req *core.Request) (*Result, error) {
	if req == nil {
		metrics.ObserveFailure("unknown", metrics.ReasonValidation)
		return nil, fmt.Errorf("%w: nil request", core.ErrInvalidRequest)
	}

	reportType := req.ReportType.Normalize()
	normalized := core.Request{ReportType: reportType, Products: req.Products}
	if err := core.ValidateRequest(&normalized); err != nil {
		metrics.ObserveFailure(typeLabel(reportType), metrics.ReasonValidation)
		return nil, err
	}

	prompt := BuildPrompt(&normalized)
	logger := g.logger.With("type", reportType, "products", len(normalized.Products))
	logger.Debug("generating report", "prompt_length", len(prompt))

	start := time.Now()
	raw, err := g.generator.GenerateText(ctx, GuardPrompt, prompt)
	if err != nil {
		metrics.ObserveFailure(string(reportType), metrics.ReasonModel)
		logger.Error("model call failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	content, extraction := ExtractContent(raw)
	if extraction == ExtractionRaw {
		logger.Warn("model response carried no reportContent, using raw text", "length", len(raw))
	}
	elapsed := time.Since(start)
	metrics.ObserveReport(string(reportType), string(extraction), elapsed)
	logger.Info("report generated", "extraction", extraction, "elapsed", elapsed)

	return &Result{
		Report: &core.Report{
			Title:   reportType.Title(),
			Content: content,
		},
		ReportType:  reportType,
		Prompt:      prompt,
		Raw:         raw,
		Extraction:  extraction,
		Fingerprint: core.IDFromContent(prompt),
		Duration:    elapsed,
	}, nil
}

// typeLabel keeps arbitrary client input out of metric label values.
func typeLabel(t core.ReportType) string {
	if core.ValidateReportType(t) != nil {
		return "unknown"
	}
	return string(t)
}
