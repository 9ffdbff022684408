// Package catalog loads product lists from JSON or YAML files.
//
// A document is either a full request:
//
//	reportType: stock
//	products:
//	  - name: teclado
//	    price: 50000
//	    cost: 30000
//	    stock: 4
//	    visible: true
//
// or a bare list of products, in which case the report type is left empty.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/poiesic/reportgen/core"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a catalog document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Stdin is the path that makes Load read standard input.
const Stdin = "-"

var (
	// ErrUnsupportedFormat is returned for file extensions other than .json, .yaml and .yml.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")

	// ErrEmptyDocument is returned when the document has no content.
	ErrEmptyDocument = errors.New("catalog document is empty")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FormatFromPath picks the format by file extension. Stdin is JSON.
func FormatFromPath(path string) (Format, error) {
	if path == Stdin {
		return FormatJSON, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads and validates the catalog at path.
func Load(path string) (*core.Request, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	if path == Stdin {
		return Decode(os.Stdin, format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	req, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

// Decode parses a catalog document and validates the resulting request.
// The report type is normalized, so an absent type becomes pricing.
func Decode(r io.Reader, format Format) (*core.Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	var req *core.Request
	switch format {
	case FormatJSON:
		req, err = decodeJSON(data)
	case FormatYAML:
		req, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidRequest, err)
	}

	req.ReportType = req.ReportType.Normalize()
	if err := core.ValidateRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

func decodeJSON(data []byte) (*core.Request, error) {
	if data[0] == '[' {
		var products []core.Product
		if err := json.Unmarshal(data, &products); err != nil {
			return nil, err
		}
		return &core.Request{Products: products}, nil
	}

	var req core.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func decodeYAML(data []byte) (*core.Request, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, ErrEmptyDocument
	}

	if node.Content[0].Kind == yaml.SequenceNode {
		var products []core.Product
		if err := node.Decode(&products); err != nil {
			return nil, err
		}
		return &core.Request{Products: products}, nil
	}

	var req core.Request
	if err := node.Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
