package badger

import (
	"encoding/binary"
	"time"

	"github.com/poiesic/reportgen/core"
)

// Key prefixes for different data types
const (
	reportPrefix            = "rpt:"
	reportDatePrefix        = "rptd:"
	reportFingerprintPrefix = "rptf:"
)

// makeReportKey generates a key for a report by ID.
func makeReportKey(id string) []byte {
	return []byte(reportPrefix + id)
}

// makeReportDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeReportDateKey(timestamp time.Time, id string) []byte {
	buf := makePartialReportDateKey(timestamp)
	return append(buf, id...)
}

// makePartialReportDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialReportDateKey(timestamp time.Time) []byte {
	prefixBytes := []byte(reportDatePrefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeReportFingerprintKey generates the key of the fingerprint index.
// Format: prefix:fingerprint
func makeReportFingerprintKey(fingerprint core.ID) []byte {
	prefixBytes := []byte(reportFingerprintPrefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(fingerprint))
	return buf
}
