package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is an excelize-backed port.SheetSource for the backup worksheet.
type Sheet struct {
	f     *excelize.File
	sheet string
}

// OpenSheet opens the worksheet at path read-only.
func OpenSheet(path, sheet string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	return &Sheet{f: f, sheet: sheet}, nil
}

// Close releases the underlying workbook.
func (s *Sheet) Close() error {
	return s.f.Close()
}

// Rows returns every cell row of the worksheet, header first. A missing
// worksheet yields no rows, which the extractor treats as freshly
// initialized.
func (s *Sheet) Rows(ctx context.Context) ([][]string, error) {
	idx, err := s.f.GetSheetIndex(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("resolving sheet %q: %w", s.sheet, err)
	}
	if idx < 0 {
		return nil, nil
	}
	rows, err := s.f.GetRows(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", s.sheet, err)
	}
	return rows, nil
}
