package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ReportType selects the prompt template and title of a report.
type ReportType string

const (
	// ReportTypePricing analyzes price ranges and margins. It is the default.
	ReportTypePricing ReportType = "pricing"
	// ReportTypeCatalog summarizes the catalog as a whole.
	ReportTypeCatalog ReportType = "catalog"
	// ReportTypeStock analyzes inventory levels and value.
	ReportTypeStock ReportType = "stock"
)

// ReportTypes lists every supported report type in canonical order.
var ReportTypes = []ReportType{ReportTypePricing, ReportTypeCatalog, ReportTypeStock}

const (
	titlePricing = "Reporte de Precios y Márgenes"
	titleCatalog = "Reporte de Análisis de Catálogo"
	titleStock   = "Reporte de Análisis de Stock"
)

// Title returns the fixed report title for the type.
// Anything that is not catalog or stock gets the pricing title.
func (t ReportType) Title() string {
	switch t {
	case ReportTypeCatalog:
		return titleCatalog
	case ReportTypeStock:
		return titleStock
	default:
		return titlePricing
	}
}

// Normalize maps the empty type to the pricing default.
func (t ReportType) Normalize() ReportType {
	if t == "" {
		return ReportTypePricing
	}
	return t
}

// ParseReportType parses a report type name. Matching is case-insensitive
// and the empty string yields ReportTypePricing.
func ParseReportType(s string) (ReportType, error) {
	t := ReportType(strings.ToLower(strings.TrimSpace(s))).Normalize()
	if err := ValidateReportType(t); err != nil {
		return "", err
	}
	return t, nil
}

// Product is a single catalog entry fed into the prompt.
type Product struct {
	Name    string  `json:"name" yaml:"name"`
	Price   float64 `json:"price" yaml:"price"`
	Cost    float64 `json:"cost" yaml:"cost"`
	Stock   int     `json:"stock" yaml:"stock"`
	Visible bool    `json:"visible" yaml:"visible"`
}

// Request asks for one report over an ordered list of products.
type Request struct {
	ReportType ReportType `json:"reportType" yaml:"reportType"`
	Products   []Product  `json:"products" yaml:"products"`
}

// Report is the generated output. Content is Markdown.
type Report struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ArchivedReport is a generated report as kept in the archive.
type ArchivedReport struct {
	ID           string     `json:"id"`
	ReportType   ReportType `json:"reportType"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Extraction   string     `json:"extraction"`   // How the content was recovered from the model output
	Model        string     `json:"model"`        // Model identifier that produced the report
	Fingerprint  ID         `json:"fingerprint"`  // IDFromContent of the rendered prompt
	ProductCount int        `json:"productCount"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Report returns the client-facing view of the archived report.
func (a *ArchivedReport) Report() *Report {
	return &Report{
		ID:      a.ID,
		Title:   a.Title,
		Content: a.Content,
	}
}
