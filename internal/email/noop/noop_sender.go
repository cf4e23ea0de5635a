package noop

import (
	"context"
	"log"
	"strings"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs notices to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendSubmissionNotice(_ context.Context, to []string, n port.SubmissionNotice) error {
	log.Printf("[NOOP EMAIL] Submission notice %s to %s (pdf=%s)",
		n.SubmissionID, strings.Join(to, ","), n.PDFLocation)
	return nil
}

func (s *noopSender) SendBackupNotice(_ context.Context, to []string, n port.BackupNotice) error {
	log.Printf("[NOOP EMAIL] Backup notice (UTC %s, %d records) to %s",
		n.Timestamp, n.RecordCount, strings.Join(to, ","))
	return nil
}
