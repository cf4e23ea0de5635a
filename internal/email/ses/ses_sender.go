package ses

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSender creates an SES-backed EmailSender.
func NewSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendSubmissionNotice(ctx context.Context, to []string, n port.SubmissionNotice) error {
	subject := fmt.Sprintf("New complaint submission: %s", n.SubmissionID)

	lines := []string{
		"A new complaint was submitted.",
		fmt.Sprintf("Submission id: %s", n.SubmissionID),
		fmt.Sprintf("Timestamp: %s", n.Timestamp),
		fmt.Sprintf("PDF: %s", valueOr(n.PDFLocation, "n/a")),
		fmt.Sprintf("Metadata: %s", valueOr(n.MetaLocation, "n/a")),
	}
	if n.PDFLink != "" {
		lines = append(lines, fmt.Sprintf("Download link: %s", n.PDFLink))
	}

	return s.send(ctx, to, subject, strings.Join(lines, "\n"))
}

func (s *sesSender) SendBackupNotice(ctx context.Context, to []string, n port.BackupNotice) error {
	subject := fmt.Sprintf("Complaints backup success (UTC %s)", n.Timestamp)

	lines := []string{
		"Complaints backup completed successfully.",
		fmt.Sprintf("UTC timestamp: %s", n.Timestamp),
		fmt.Sprintf("Records: %d", n.RecordCount),
		fmt.Sprintf("CSV local: %s", n.CSVPath),
		fmt.Sprintf("CSV uploaded: %s", valueOr(n.CSVLocation, "n/a")),
		fmt.Sprintf("Log uploaded: %s", valueOr(n.LogLocation, "n/a")),
	}

	return s.send(ctx, to, subject, strings.Join(lines, "\n"))
}

func (s *sesSender) send(ctx context.Context, to []string, subject, textBody string) error {
	if len(to) == 0 {
		return domain.ErrNoRecipients
	}

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: to,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
