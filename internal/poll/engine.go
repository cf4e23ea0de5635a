// Package poll drives the polled response table: it fetches unprocessed rows,
// normalizes and publishes each one, and writes a processed marker back into
// the source row so the next invocation skips it.
package poll

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/port"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/schema"
)

// Columns the form backend auto-adds to the response table. They never reach
// the normalizer.
var systemColumns = map[string]bool{
	"id":              true,
	"start time":      true,
	"completion time": true,
	"email":           true,
	"name":            true,
}

// Accepted names for the tracking column, matched case-insensitively.
var processedCandidates = map[string]bool{
	"processed":    true,
	"is processed": true,
	"done":         true,
}

// Cell values that mark a row as already handled.
var processedValues = map[string]bool{
	"yes":  true,
	"true": true,
	"1":    true,
	"y":    true,
	"done": true,
}

// processedSentinel is what the engine writes back after a successful publish.
const processedSentinel = "Yes"

// Engine is the poll-and-mark driver. One Engine serves any number of
// sequential PollOnce invocations; it holds no state between them.
type Engine struct {
	source    port.TableSource
	publisher port.SubmissionPublisher
	registry  *schema.Registry
}

// NewEngine creates a poll engine over the given table source and publisher.
func NewEngine(source port.TableSource, publisher port.SubmissionPublisher, registry *schema.Registry) *Engine {
	return &Engine{
		source:    source,
		publisher: publisher,
		registry:  registry,
	}
}

// PollOnce takes one snapshot of the table and processes every row that does
// not carry a processed marker. A failure while handling one row is logged
// and does not block the remaining rows; a failure fetching columns or rows
// aborts the run. Returns the number of rows successfully marked processed.
func (e *Engine) PollOnce(ctx context.Context) (int, error) {
	cols, err := e.source.Columns(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching table columns: %w", err)
	}

	processedIdx, err := resolveProcessedColumn(cols)
	if err != nil {
		return 0, err
	}

	rows, err := e.source.Rows(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching table rows: %w", err)
	}

	processed := 0
	for _, row := range rows {
		if row.Index < 0 || len(row.Values) == 0 {
			continue
		}
		if alreadyProcessed(row.Values, processedIdx) {
			continue
		}
		if err := e.handleRow(ctx, cols, row, processedIdx); err != nil {
			log.Printf("poll: row index=%d: %v", row.Index, err)
			continue
		}
		processed++
	}

	log.Printf("poll: finished, processed_count=%d", processed)
	return processed, nil
}

// handleRow normalizes, publishes, and marks a single unprocessed row.
// The row stays eligible for the next invocation unless the marker write
// succeeds, so delivery is at-least-once when the write-back fails.
func (e *Engine) handleRow(ctx context.Context, cols []string, row port.TableRow, processedIdx int) error {
	raw := make(map[string]any, len(cols))
	for i, c := range cols {
		if i < len(row.Values) {
			raw[c] = row.Values[i]
		}
	}

	submissionID := firstNonEmpty(
		stringOf(raw["Id"]),
		stringOf(raw["id"]),
		fmt.Sprintf("row-%d", row.Index),
	)
	timestamp := firstNonEmpty(
		stringOf(raw["Completion time"]),
		stringOf(raw["completion time"]),
		stringOf(raw["Start time"]),
		stringOf(raw["start time"]),
	)

	// System columns and the tracking column never enter the normalizer.
	cleaned := make(map[string]any, len(raw))
	for k, v := range raw {
		kn := schema.NormalizeQuestion(k)
		if systemColumns[kn] || processedCandidates[kn] {
			continue
		}
		cleaned[k] = v
	}

	rec := e.registry.NormalizeFields(cleaned)
	if rec["date"] == "" && timestamp != "" {
		rec["date"] = timestamp
	}
	if rec["submission_timestamp"] == "" && timestamp != "" {
		rec["submission_timestamp"] = timestamp
	}

	sub := &domain.Submission{
		ID:        submissionID,
		Source:    "table-poll",
		Timestamp: timestamp,
		Fields:    rec,
	}

	if _, err := e.publisher.Publish(ctx, sub); err != nil {
		return fmt.Errorf("publishing submission %s: %w", submissionID, err)
	}

	if err := e.source.UpdateRow(ctx, row.Index, markProcessed(row.Values, processedIdx)); err != nil {
		return fmt.Errorf("marking row processed: %w", err)
	}

	log.Printf("poll: processed row index=%d submission_id=%s", row.Index, submissionID)
	return nil
}

// resolveProcessedColumn finds the tracking column: first any candidate name,
// then an exact "processed" match. Both passes compare trimmed, lower-cased
// header cells.
func resolveProcessedColumn(cols []string) (int, error) {
	norm := make([]string, len(cols))
	for i, c := range cols {
		norm[i] = strings.ToLower(strings.TrimSpace(c))
	}
	for i, c := range norm {
		if processedCandidates[c] {
			return i, nil
		}
	}
	for i, c := range norm {
		if c == "processed" {
			return i, nil
		}
	}
	return -1, domain.ErrProcessedColumnNotFound
}

func alreadyProcessed(values []string, processedIdx int) bool {
	if processedIdx >= len(values) {
		return false
	}
	return processedValues[strings.ToLower(strings.TrimSpace(values[processedIdx]))]
}

// markProcessed returns a copy of values with the sentinel set, padding with
// empty cells when the row is shorter than the tracking column.
func markProcessed(values []string, processedIdx int) []string {
	n := len(values)
	if processedIdx >= n {
		n = processedIdx + 1
	}
	out := make([]string, n)
	copy(out, values)
	out[processedIdx] = processedSentinel
	return out
}

func stringOf(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
