package port

import "context"

// TableRow is one data row of the polled response table. Index is the
// source-assigned row index, stable for the duration of a single poll run.
// Values are aligned to the table's column order.
type TableRow struct {
	Index  int
	Values []string
}

// TableSource reads and writes the polled response table. Columns and Values
// must share the same ordering.
type TableSource interface {
	Columns(ctx context.Context) ([]string, error)
	Rows(ctx context.Context) ([]TableRow, error)
	UpdateRow(ctx context.Context, index int, values []string) error
}

// SheetSource reads a backup worksheet as raw cell rows, header row first.
type SheetSource interface {
	Rows(ctx context.Context) ([][]string, error)
}
