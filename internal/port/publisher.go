package port

import (
	"context"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"
)

// PublishResult reports where a submission's artifacts landed.
type PublishResult struct {
	SubmissionID string `json:"submission_id"`
	PDFKey       string `json:"pdf_key"`
	MetadataKey  string `json:"metadata_key"`
	PDFLocation  string `json:"pdf_location"`
}

// SubmissionPublisher delivers one normalized submission downstream
// (document rendering, upload, notification).
type SubmissionPublisher interface {
	Publish(ctx context.Context, sub *domain.Submission) (*PublishResult, error)
}
