package archive_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/archive"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/schema"
)

func TestWriter_HeaderAndRecords(t *testing.T) {
	registry := schema.NewRegistry()
	var buf bytes.Buffer

	w := archive.NewWriter(&buf, registry)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRecords([]domain.Record{
		{"date": "2025-03-01", "first_name": "Ada", "not_a_column": "dropped"},
		{"first_name": "Grace, PhD"},
	}))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	cols := registry.Columns()
	assert.Equal(t, cols, rows[0])
	assert.Len(t, rows[1], len(cols))
	assert.Equal(t, "2025-03-01", rows[1][0])
	assert.Equal(t, "Ada", rows[1][1])
	assert.Equal(t, "Grace, PhD", rows[2][1])
	assert.NotContains(t, rows[1], "dropped")
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"submission 42", "submission_42"},
		{"  a//b\\c  ", "a_b_c"},
		{"report.v2-final", "report.v2-final"},
		{"___", "file"},
		{"", "file"},
		{"a!!!b", "a_b"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, archive.SanitizeFilename(tc.in), "input %q", tc.in)
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := archive.SanitizeFilename(long)
	assert.Len(t, got, 120)
}

func TestBackupFilename(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 5, 30, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "complaints_backup_utc_20250301_080530.csv", archive.BackupFilename(at))
}
