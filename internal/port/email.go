package port

import "context"

// SubmissionNotice describes one delivered complaint submission for email
// notification.
type SubmissionNotice struct {
	SubmissionID string
	Timestamp    string
	PDFLocation  string
	PDFLink      string
	MetaLocation string
}

// BackupNotice describes one completed worksheet backup run.
type BackupNotice struct {
	Timestamp   string
	RecordCount int
	CSVPath     string
	CSVLocation string
	LogLocation string
}

// EmailSender defines the contract for sending notification emails.
type EmailSender interface {
	SendSubmissionNotice(ctx context.Context, to []string, n SubmissionNotice) error
	SendBackupNotice(ctx context.Context, to []string, n BackupNotice) error
}
