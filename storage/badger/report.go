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

package badger

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/reportgen/core"
	"github.com/poiesic/reportgen/storage"
)

// ReportRepository implements storage.ReportRepository for BadgerDB.
// It owns the backend and closes it on Close.
type ReportRepository struct {
	backend *Backend
}

var _ storage.ReportRepository = (*ReportRepository)(nil)

// newReportRepository is an internal constructor that returns the concrete type.
func newReportRepository(backend *Backend) *ReportRepository {
	return &ReportRepository{backend: backend}
}

// NewReportRepository creates a report archive on top of an open backend.
//
// Returns storage.ReportRepository interface to enforce abstraction.
func NewReportRepository(backend *Backend) storage.ReportRepository {
	return newReportRepository(backend)
}

// NewRepository opens (or creates) an on-disk archive at path.
func NewRepository(path string) (storage.ReportRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newReportRepository(backend), nil
}

// Close closes the underlying backend.
func (r *ReportRepository) Close() error {
	if r.backend.IsClosed() {
		return nil
	}
	return r.backend.Close()
}

// SaveReport stores a report and updates the date and fingerprint indices.
func (r *ReportRepository) SaveReport(ctx context.Context, report *core.ArchivedReport) (*core.ArchivedReport, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	value, err := storage.MarshalReport(report)
	if err != nil {
		return nil, err
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeReportKey(report.ID)
		if _, err := tx.Get(key); err == nil {
			return storage.ErrDuplicateKey
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := tx.Set(key, value); err != nil {
			return err
		}

		// Update date index
		dateKey := makeReportDateKey(report.CreatedAt, report.ID)
		if err := tx.Set(dateKey, []byte(report.ID)); err != nil {
			return err
		}

		// Latest report wins the fingerprint index
		fpKey := makeReportFingerprintKey(report.Fingerprint)
		if err := tx.Set(fpKey, []byte(report.ID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// GetReport retrieves a single report by ID.
func (r *ReportRepository) GetReport(ctx context.Context, id string) (*core.ArchivedReport, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var result *core.ArchivedReport
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readReport(tx, id)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetRecentReports retrieves the N most recent reports, newest first.
func (r *ReportRepository) GetRecentReports(ctx context.Context, limit int) ([]*core.ArchivedReport, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	results := make([]*core.ArchivedReport, 0, limit)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent reports first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key of the date index
		startKey := makePartialReportDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(reportDatePrefix)

		for iter.Seek(startKey); iter.ValidForPrefix(prefix) && len(results) < limit; iter.Next() {
			report, err := r.readIndexed(tx, iter.Item())
			if err != nil {
				return err
			}
			if report != nil {
				results = append(results, report)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetReportsByDateRange retrieves reports where start <= CreatedAt < end.
func (r *ReportRepository) GetReportsByDateRange(ctx context.Context, start, end time.Time) ([]*core.ArchivedReport, error) {
	if !start.Before(end) {
		return nil, storage.ErrInvalidQuery
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var results []*core.ArchivedReport
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		prefix := []byte(reportDatePrefix)
		endKey := makePartialReportDateKey(end)

		for iter.Seek(makePartialReportDateKey(start)); iter.ValidForPrefix(prefix); iter.Next() {
			key := iter.Item().Key()
			if bytes.Compare(key[:len(endKey)], endKey) >= 0 {
				break
			}
			report, err := r.readIndexed(tx, iter.Item())
			if err != nil {
				return err
			}
			if report != nil {
				results = append(results, report)
			}
		}
		return nil
	}, false)

	return results, err
}

// FindByFingerprint returns the latest report saved for a prompt fingerprint.
func (r *ReportRepository) FindByFingerprint(ctx context.Context, fingerprint core.ID) (*core.ArchivedReport, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var result *core.ArchivedReport
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeReportFingerprintKey(fingerprint))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		result, err = r.readIndexed(tx, item)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// DeleteReport removes a report and its index entries. When the report held
// the fingerprint index, the next most recent report with the same
// fingerprint takes its place.
func (r *ReportRepository) DeleteReport(ctx context.Context, id string) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		report, err := r.readReport(tx, id)
		if err != nil {
			return err
		}
		if report == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeReportDateKey(report.CreatedAt, report.ID)); err != nil {
			return err
		}
		if err := tx.Delete(makeReportKey(report.ID)); err != nil {
			return err
		}
		if err := r.reindexFingerprint(tx, report); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// reindexFingerprint points the fingerprint index of a deleted report at the
// newest remaining report with the same fingerprint, or removes it.
func (r *ReportRepository) reindexFingerprint(tx *badger.Txn, deleted *core.ArchivedReport) error {
	fpKey := makeReportFingerprintKey(deleted.Fingerprint)
	item, err := tx.Get(fpKey)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	}
	current, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}
	if string(current) != deleted.ID {
		return nil
	}

	opts := badger.DefaultIteratorOptions
	opts.Reverse = true
	iter := tx.NewIterator(opts)
	defer iter.Close()

	startKey := makePartialReportDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
	prefix := []byte(reportDatePrefix)
	for iter.Seek(startKey); iter.ValidForPrefix(prefix); iter.Next() {
		candidate, err := r.readIndexed(tx, iter.Item())
		if err != nil {
			return err
		}
		if candidate != nil && candidate.ID != deleted.ID && candidate.Fingerprint == deleted.Fingerprint {
			return tx.Set(fpKey, []byte(candidate.ID))
		}
	}
	return tx.Delete(fpKey)
}

// readIndexed follows an index entry, whose value is a report ID, to the report.
func (r *ReportRepository) readIndexed(tx *badger.Txn, item *badger.Item) (*core.ArchivedReport, error) {
	id, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	return r.readReport(tx, string(id))
}

// readReport returns nil, nil when the report does not exist.
func (r *ReportRepository) readReport(tx *badger.Txn, id string) (*core.ArchivedReport, error) {
	item, err := tx.Get(makeReportKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var report *core.ArchivedReport
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		report, unmarshalErr = storage.UnmarshalReport(val)
		return unmarshalErr
	})
	return report, err
}
