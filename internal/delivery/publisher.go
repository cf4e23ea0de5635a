// Package delivery renders a submission, uploads the PDF and its JSON
// metadata to object storage under date-partitioned keys, and sends the
// notification email.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/archive"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/port"
)

// Config holds delivery-sink settings.
type Config struct {
	Bucket         string
	Prefix         string
	LinkExpirySecs int64
	NotifyTo       []string
	FormTitle      string
}

// Publisher implements port.SubmissionPublisher over a renderer, an object
// store, and an email sender.
type Publisher struct {
	renderer port.DocumentRenderer
	store    port.ObjectStorage
	mail     port.EmailSender
	cfg      Config
}

// NewPublisher creates a Publisher.
func NewPublisher(renderer port.DocumentRenderer, store port.ObjectStorage, mail port.EmailSender, cfg Config) *Publisher {
	return &Publisher{renderer: renderer, store: store, mail: mail, cfg: cfg}
}

// metadata is the JSON artifact stored next to each PDF.
type metadata struct {
	Source       string        `json:"source"`
	SubmissionID string        `json:"submission_id"`
	FormTitle    string        `json:"form_title,omitempty"`
	Timestamp    string        `json:"timestamp"`
	Fields       domain.Record `json:"fields"`
}

// Publish renders the submission, uploads both artifacts, and notifies the
// recipients. The notification is part of delivery: its failure fails the
// publish so the row stays eligible for retry.
func (p *Publisher) Publish(ctx context.Context, sub *domain.Submission) (*port.PublishResult, error) {
	title := sub.FormTitle
	if title == "" {
		title = p.cfg.FormTitle
	}

	pdf, err := p.renderer.Render(title, sub.Fields)
	if err != nil {
		return nil, fmt.Errorf("rendering submission %s: %w", sub.ID, err)
	}

	meta, err := json.MarshalIndent(metadata{
		Source:       sub.Source,
		SubmissionID: sub.ID,
		FormTitle:    sub.FormTitle,
		Timestamp:    sub.Timestamp,
		Fields:       sub.Fields,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling metadata for %s: %w", sub.ID, err)
	}

	y, m, d := dateParts(firstNonEmpty(sub.Fields["submission_timestamp"], sub.Timestamp))
	base := fmt.Sprintf("%s/submissions/%s/%s/%s/complaint_%s",
		strings.Trim(p.cfg.Prefix, "/"), y, m, d, archive.SanitizeFilename(sub.ID))

	pdfKey := base + ".pdf"
	pdfOut, err := p.store.Upload(ctx, port.UploadInput{
		Bucket:      p.cfg.Bucket,
		Key:         pdfKey,
		Body:        bytes.NewReader(pdf),
		ContentType: "application/pdf",
	})
	if err != nil {
		return nil, fmt.Errorf("uploading PDF for %s: %w", sub.ID, err)
	}

	metaKey := base + ".json"
	if _, err := p.store.Upload(ctx, port.UploadInput{
		Bucket:      p.cfg.Bucket,
		Key:         metaKey,
		Body:        bytes.NewReader(meta),
		ContentType: "application/json",
	}); err != nil {
		return nil, fmt.Errorf("uploading metadata for %s: %w", sub.ID, err)
	}

	result := &port.PublishResult{
		SubmissionID: sub.ID,
		PDFKey:       pdfKey,
		MetadataKey:  metaKey,
		PDFLocation:  pdfOut.Location,
	}

	recipients := sub.Recipients
	if len(recipients) == 0 {
		recipients = p.cfg.NotifyTo
	}
	if len(recipients) == 0 {
		return result, nil
	}

	notice := port.SubmissionNotice{
		SubmissionID: sub.ID,
		Timestamp:    sub.Timestamp,
		PDFLocation:  pdfOut.Location,
		MetaLocation: metaKey,
	}
	if p.cfg.LinkExpirySecs > 0 {
		link, lerr := p.store.GetPresignedURL(ctx, p.cfg.Bucket, pdfKey, p.cfg.LinkExpirySecs)
		if lerr != nil {
			// The upload already succeeded; a missing link is not worth a retry.
			log.Printf("delivery: presigning PDF link for %s: %v", sub.ID, lerr)
		} else {
			notice.PDFLink = link
		}
	}
	if err := p.mail.SendSubmissionNotice(ctx, recipients, notice); err != nil {
		return nil, fmt.Errorf("sending submission notice for %s: %w", sub.ID, err)
	}

	return result, nil
}

// dateParts extracts UTC year/month/day from an ISO-ish timestamp, falling
// back to the current time when it cannot be parsed.
func dateParts(ts string) (string, string, string) {
	t := time.Now().UTC()
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, strings.TrimSpace(ts)); err == nil {
			t = parsed.UTC()
			break
		}
	}
	return t.Format("2006"), t.Format("01"), t.Format("02")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
