// Package dispatch parses webhook-style dispatch events carrying a single
// complaint submission.
package dispatch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/schema"
)

// DefaultFormTitle is used when the payload does not name the form.
const DefaultFormTitle = "Customer Complaint Form"

// Payload is one complaint submission carried by a dispatch event.
type Payload struct {
	SubmissionID string
	FormTitle    string
	Timestamp    string
	EmailTo      []string
	Fields       map[string]any
}

// ParseEvent decodes a dispatch event. The submission may sit behind a
// repository-dispatch style "client_payload" envelope or be the document
// itself. Recipients arrive as a comma-separated string or a JSON array.
// A missing submission id gets a generated one.
func ParseEvent(data []byte) (*Payload, error) {
	var envelope struct {
		ClientPayload json.RawMessage `json:"client_payload"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parsing dispatch event: %w", err)
	}
	body := data
	if len(envelope.ClientPayload) > 0 {
		body = envelope.ClientPayload
	}

	var wire struct {
		SubmissionID string         `json:"submission_id"`
		FormTitle    string         `json:"form_title"`
		Timestamp    string         `json:"timestamp"`
		EmailTo      any            `json:"email_to"`
		Fields       map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("parsing dispatch payload: %w", err)
	}
	if len(wire.Fields) == 0 {
		return nil, domain.ErrEmptyPayload
	}

	p := &Payload{
		SubmissionID: strings.TrimSpace(wire.SubmissionID),
		FormTitle:    strings.TrimSpace(wire.FormTitle),
		Timestamp:    strings.TrimSpace(wire.Timestamp),
		EmailTo:      parseRecipients(wire.EmailTo),
		Fields:       wire.Fields,
	}
	if p.SubmissionID == "" {
		p.SubmissionID = uuid.NewString()
	}
	if p.FormTitle == "" {
		p.FormTitle = DefaultFormTitle
	}
	return p, nil
}

// Submission normalizes the payload fields and builds the publishable
// submission, carrying a top-level timestamp into the system column when the
// field mapping left it empty.
func (p *Payload) Submission(registry *schema.Registry) *domain.Submission {
	rec := registry.NormalizeFields(p.Fields)
	if rec["submission_timestamp"] == "" && p.Timestamp != "" {
		rec["submission_timestamp"] = p.Timestamp
	}
	return &domain.Submission{
		ID:         p.SubmissionID,
		Source:     "dispatch",
		FormTitle:  p.FormTitle,
		Timestamp:  p.Timestamp,
		Recipients: p.EmailTo,
		Fields:     rec,
	}
}

func parseRecipients(v any) []string {
	var out []string
	appendEmail := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch t := v.(type) {
	case string:
		for _, e := range strings.Split(t, ",") {
			appendEmail(e)
		}
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok {
				appendEmail(s)
			}
		}
	}
	return out
}
