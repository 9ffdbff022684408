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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRequest indicates a Request failed validation or decoding.
	ErrInvalidRequest = errors.New("invalid report request")

	// ErrInvalidReportType indicates a report type outside the supported set.
	ErrInvalidReportType = errors.New("invalid report type")

	// ErrInvalidProduct indicates a Product failed validation.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrEmptyProductName indicates the product Name field is empty.
	ErrEmptyProductName = errors.New("product name cannot be empty")

	// ErrInvalidPrice indicates a negative or non-finite price.
	ErrInvalidPrice = errors.New("price must be a finite, non-negative number")

	// ErrInvalidCost indicates a negative or non-finite cost.
	ErrInvalidCost = errors.New("cost must be a finite, non-negative number")

	// ErrInvalidStock indicates a negative stock count.
	ErrInvalidStock = errors.New("stock cannot be negative")
)
