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

package core

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// ValidateRequest validates a Request at the system boundary.
//
// Validation rules:
//   - Request must not be nil
//   - ReportType must be empty (pricing) or one of the supported types
//   - Every product must pass ValidateProduct
//
// An empty product list is valid.
func ValidateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}

	if err := ValidateReportType(req.ReportType.Normalize()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	for i := range req.Products {
		if err := ValidateProduct(&req.Products[i]); err != nil {
			return fmt.Errorf("%w: product %d: %w", ErrInvalidRequest, i, err)
		}
	}

	return nil
}

// ValidateProduct validates a Product according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Price and Cost must be finite and not negative
//   - Stock must not be negative
func ValidateProduct(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidProduct)
	}

	if product.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyProductName)
	}

	if !isNonNegativeFinite(product.Price) {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrInvalidPrice)
	}

	if !isNonNegativeFinite(product.Cost) {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrInvalidCost)
	}

	if product.Stock < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrInvalidStock)
	}

	return nil
}

// ValidateReportType validates that a ReportType has a supported value.
func ValidateReportType(t ReportType) error {
	switch t {
	case ReportTypePricing, ReportTypeCatalog, ReportTypeStock:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidReportType, string(t))
}

// DecodeRequest strictly decodes a JSON request and validates it.
// Unknown fields, mistyped values and trailing data are rejected.
func DecodeRequest(r io.Reader) (*Request, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var req Request
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after request object", ErrInvalidRequest)
	}
	req.ReportType = req.ReportType.Normalize()

	if err := ValidateRequest(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func isNonNegativeFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}
