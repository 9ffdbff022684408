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

// Package storage provides the storage abstraction layer for reportgen.
//
// This package defines repository interfaces that decouple the report
// archive from the code that generates reports. The BadgerDB implementation
// lives in storage/badger.
//
// # Constructor Return Type Pattern
//
// Public constructors return the repository interface:
//
//	repo, err := badger.NewReportRepository(backend)  // returns storage.ReportRepository
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Usage
//
// Open an on-disk archive:
//
//	backend, err := badger.OpenBackend("/path/to/archive", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	repo := badger.NewReportRepository(backend)
//	defer repo.Close()
//
// Use in tests with in-memory storage:
//
//	repo, err := badger.NewMemoryRepository()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// # Serialization
//
// Reports are stored as JSON encoded with json-iterator.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
