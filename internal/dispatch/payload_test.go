package dispatch_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/dispatch"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/schema"
)

func TestParseEvent_BareDocument(t *testing.T) {
	data := []byte(`{
		"submission_id": "sub-1",
		"form_title": "Complaint Intake",
		"timestamp": "2025-03-01T09:05:00Z",
		"email_to": "ops@example.com, qa@example.com",
		"fields": {"First Name": "Ada"}
	}`)

	p, err := dispatch.ParseEvent(data)
	require.NoError(t, err)

	assert.Equal(t, "sub-1", p.SubmissionID)
	assert.Equal(t, "Complaint Intake", p.FormTitle)
	assert.Equal(t, "2025-03-01T09:05:00Z", p.Timestamp)
	assert.Equal(t, []string{"ops@example.com", "qa@example.com"}, p.EmailTo)
}

func TestParseEvent_ClientPayloadEnvelope(t *testing.T) {
	data := []byte(`{
		"action": "complaint-submission",
		"client_payload": {
			"submission_id": "sub-2",
			"email_to": ["ops@example.com"],
			"fields": {"First Name": "Grace"}
		}
	}`)

	p, err := dispatch.ParseEvent(data)
	require.NoError(t, err)

	assert.Equal(t, "sub-2", p.SubmissionID)
	assert.Equal(t, []string{"ops@example.com"}, p.EmailTo)
	assert.Equal(t, "Grace", p.Fields["First Name"])
}

func TestParseEvent_Defaults(t *testing.T) {
	p, err := dispatch.ParseEvent([]byte(`{"fields": {"First Name": "Ada"}}`))
	require.NoError(t, err)

	_, parseErr := uuid.Parse(p.SubmissionID)
	assert.NoError(t, parseErr)
	assert.Equal(t, dispatch.DefaultFormTitle, p.FormTitle)
	assert.Empty(t, p.EmailTo)
}

func TestParseEvent_EmptyFields(t *testing.T) {
	for name, data := range map[string]string{
		"no fields key": `{"submission_id": "x"}`,
		"empty object":  `{"fields": {}}`,
	} {
		_, err := dispatch.ParseEvent([]byte(data))
		assert.ErrorIs(t, err, domain.ErrEmptyPayload, name)
	}
}

func TestParseEvent_MalformedJSON(t *testing.T) {
	_, err := dispatch.ParseEvent([]byte(`{"fields":`))
	require.Error(t, err)
}

func TestPayload_Submission(t *testing.T) {
	data := []byte(`{
		"submission_id": "sub-3",
		"timestamp": "2025-03-01T09:05:00Z",
		"fields": {"First Name": "Ada", "Complaint Description": "Broken handle"}
	}`)
	p, err := dispatch.ParseEvent(data)
	require.NoError(t, err)

	sub := p.Submission(schema.NewRegistry())

	assert.Equal(t, "sub-3", sub.ID)
	assert.Equal(t, "dispatch", sub.Source)
	assert.Equal(t, "Ada", sub.Fields["first_name"])
	assert.Equal(t, "Broken handle", sub.Fields["complaint_description"])
	// Top-level timestamp lands in the system column when the fields omit it.
	assert.Equal(t, "2025-03-01T09:05:00Z", sub.Fields["submission_timestamp"])
}

func TestPayload_SubmissionKeepsExplicitTimestampField(t *testing.T) {
	data := []byte(`{
		"timestamp": "2025-03-01T00:00:00Z",
		"fields": {"timestamp": "2025-04-01T00:00:00Z", "First Name": "Ada"}
	}`)
	p, err := dispatch.ParseEvent(data)
	require.NoError(t, err)

	sub := p.Submission(schema.NewRegistry())
	assert.Equal(t, "2025-04-01T00:00:00Z", sub.Fields["submission_timestamp"])
}
