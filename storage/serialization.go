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

package storage

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/poiesic/reportgen/core"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalReport serializes an ArchivedReport to bytes.
func MarshalReport(report *core.ArchivedReport) ([]byte, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalReport deserializes an ArchivedReport from bytes.
func UnmarshalReport(data []byte) (*core.ArchivedReport, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedData
	}
	var report core.ArchivedReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &report, nil
}
