// Package archive writes canonical complaint records as CSV over the fixed
// column order, and provides filename helpers for archived artifacts.
package archive

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/schema"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer wraps csv.Writer for exporting canonical records.
type Writer struct {
	csv     *csv.Writer
	columns []string
}

// NewWriter creates a Writer that writes CSV rows to w in the registry's
// canonical column order.
func NewWriter(w io.Writer, registry *schema.Registry) *Writer {
	return &Writer{csv: csv.NewWriter(w), columns: registry.Columns()}
}

// WriteHeader writes the canonical header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(w.columns)
}

// WriteRecords converts a batch of records to CSV rows and writes them.
// Keys outside the canonical set are ignored.
func (w *Writer) WriteRecords(records []domain.Record) error {
	for _, rec := range records {
		row := make([]string, len(w.columns))
		for i, c := range w.columns {
			row[i] = rec[c]
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// nonAlphanumeric matches characters that are not alphanumeric, dot, hyphen,
// or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a submission identifier for use in file and object
// names. Replaces disallowed characters with _, collapses consecutive
// underscores, and truncates to 120 chars. Never returns an empty string.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(strings.TrimSpace(name), "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		s = "file"
	}
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}

// BackupFilename returns the timestamped name for one CSV backup run.
// Format: complaints_backup_utc_{YYYYMMDD_HHMMSS}.csv
func BackupFilename(now time.Time) string {
	return fmt.Sprintf("complaints_backup_utc_%s.csv", now.UTC().Format("20060102_150405"))
}
