package storage

import (
	"testing"
	"time"

	"github.com/poiesic/reportgen/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalReport(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	report := &core.ArchivedReport{
		ID:           "5f0c7a0e-3a3b-4c55-9f43-6f1ad0b0c001",
		ReportType:   core.ReportTypeStock,
		Title:        core.ReportTypeStock.Title(),
		Content:      "## Sin stock\n- ipods q3",
		Extraction:   "embedded",
		Model:        "gemini-2.0-flash",
		Fingerprint:  core.IDFromContent("prompt"),
		ProductCount: 3,
		CreatedAt:    created,
	}

	data, err := MarshalReport(report)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalReport(data)
	require.NoError(t, err)
	assert.Equal(t, report.ID, decoded.ID)
	assert.Equal(t, report.Content, decoded.Content)
	assert.Equal(t, report.Fingerprint, decoded.Fingerprint)
	assert.True(t, created.Equal(decoded.CreatedAt))
}

func TestUnmarshalReport_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty data", []byte{}, ErrTruncatedData},
		{"not json", []byte("not json"), ErrSerializationFailed},
		{"wrong shape", []byte(`{"productCount":"three"}`), ErrSerializationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalReport(tt.data)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
