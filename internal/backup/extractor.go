// Package backup reads the full complaints worksheet for archival, validating
// its header against the canonical schema first.
package backup

import (
	"context"
	"fmt"
	"strings"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/port"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/schema"
)

// Extractor reads worksheet rows and emits canonical records.
type Extractor struct {
	source   port.SheetSource
	registry *schema.Registry
}

// NewExtractor creates an Extractor over the given worksheet source.
func NewExtractor(source port.SheetSource, registry *schema.Registry) *Extractor {
	return &Extractor{source: source, registry: registry}
}

// ExtractAll reads the worksheet and returns one canonical record per data
// row, aligned to the canonical column order. An absent or blank header means
// the sheet is freshly initialized and there is nothing to extract. A header
// whose leading columns differ from the canonical order is fatal when strict
// is set; otherwise the mismatch is tolerated and rows are read positionally.
// Columns beyond the canonical set are ignored.
func (e *Extractor) ExtractAll(ctx context.Context, strict bool) ([]domain.Record, error) {
	rows, err := e.source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading worksheet: %w", err)
	}

	if len(rows) == 0 || headerBlank(rows[0]) {
		return nil, nil
	}

	cols := e.registry.Columns()
	if err := validateHeader(rows[0], cols, strict); err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(domain.Record, len(cols))
		for i, c := range cols {
			if i < len(row) {
				rec[c] = row[i]
			} else {
				rec[c] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func headerBlank(header []string) bool {
	for _, cell := range header {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// validateHeader compares the leading header cells position-by-position
// against the canonical order.
func validateHeader(header, expected []string, strict bool) error {
	if !strict {
		return nil
	}
	for i, want := range expected {
		got := ""
		if i < len(header) {
			got = strings.TrimSpace(header[i])
		}
		if got != want {
			return fmt.Errorf("%w: column %d is %q, expected %q",
				domain.ErrHeaderMismatch, i+1, got, want)
		}
	}
	return nil
}
