// Package excel adapts xlsx workbooks to the pipeline's source ports. The
// response table lives in one worksheet whose first row is the header; the
// workbook itself sits on local disk or in object storage.
package excel

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/port"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Table is an excelize-backed port.TableSource.
type Table struct {
	f     *excelize.File
	sheet string
	save  func(ctx context.Context) error
}

// OpenFileTable opens the workbook at path. Row updates are saved back to the
// same file.
func OpenFileTable(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	return &Table{
		f:     f,
		sheet: sheet,
		save:  func(context.Context) error { return f.Save() },
	}, nil
}

// OpenStoredTable downloads the workbook object and opens it. Row updates
// re-upload the whole workbook under the same key.
func OpenStoredTable(ctx context.Context, store port.ObjectStorage, bucket, key, sheet string) (*Table, error) {
	data, err := store.Download(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("downloading workbook s3://%s/%s: %w", bucket, key, err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook s3://%s/%s: %w", bucket, key, err)
	}
	return &Table{
		f:     f,
		sheet: sheet,
		save: func(ctx context.Context) error {
			buf, err := f.WriteToBuffer()
			if err != nil {
				return fmt.Errorf("serializing workbook: %w", err)
			}
			if _, err := store.Upload(ctx, port.UploadInput{
				Bucket:      bucket,
				Key:         key,
				Body:        buf,
				ContentType: xlsxContentType,
			}); err != nil {
				return fmt.Errorf("uploading workbook: %w", err)
			}
			return nil
		},
	}, nil
}

// Close releases the underlying workbook.
func (t *Table) Close() error {
	return t.f.Close()
}

// Columns returns the header row.
func (t *Table) Columns(ctx context.Context) ([]string, error) {
	rows, err := t.f.GetRows(t.sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", t.sheet, err)
	}
	if len(rows) == 0 || blankRow(rows[0]) {
		return nil, fmt.Errorf("sheet %q has no header row", t.sheet)
	}
	return rows[0], nil
}

// Rows returns the data rows in sheet order, indexed from zero.
func (t *Table) Rows(ctx context.Context) ([]port.TableRow, error) {
	rows, err := t.f.GetRows(t.sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", t.sheet, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	out := make([]port.TableRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		out = append(out, port.TableRow{Index: i, Values: row})
	}
	return out, nil
}

// UpdateRow writes one data row back and persists the workbook.
func (t *Table) UpdateRow(ctx context.Context, index int, values []string) error {
	// Data row 0 lives in sheet row 2, below the header.
	cell, err := excelize.CoordinatesToCellName(1, index+2)
	if err != nil {
		return fmt.Errorf("resolving cell for row %d: %w", index, err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := t.f.SetSheetRow(t.sheet, cell, &cells); err != nil {
		return fmt.Errorf("writing row %d: %w", index, err)
	}
	return t.save(ctx)
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
