// Command complaints runs the complaint-form pipeline: worksheet backup,
// dispatch-event processing, response-table polling, and a resident webhook
// receiver.
// Usage: complaints <backup|dispatch|poll|serve> [flags]
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/archive"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/backup"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/config"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/delivery"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/dispatch"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"
	emailnoop "github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/email/noop"
	emailses "github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/email/ses"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/handler"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/poll"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/port"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/render"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/router"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/schema"
	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/source/excel"
	s3storage "github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/storage/s3"
)

const usage = "usage: complaints <backup|dispatch|poll|serve> [flags]"

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	registry := schema.NewRegistry()

	switch args[0] {
	case "backup":
		return runBackup(cfg, registry, args[1:])
	case "dispatch":
		return runDispatch(cfg, registry, args[1:])
	case "poll":
		return runPoll(cfg, registry, args[1:])
	case "serve":
		return runServe(cfg, registry)
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

// buildMailer picks the email provider configured for this run.
func buildMailer(cfg *config.Config) (port.EmailSender, error) {
	if cfg.Email.Provider == "ses" {
		return emailses.NewSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
	}
	return emailnoop.NewNoopSender(), nil
}

// buildPublisher wires renderer, object storage, and mailer into the
// delivery publisher shared by dispatch, poll, and serve.
func buildPublisher(cfg *config.Config, registry *schema.Registry) (port.SubmissionPublisher, port.ObjectStorage, error) {
	store, err := s3storage.NewClient(&cfg.S3)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing object storage: %w", err)
	}
	mail, err := buildMailer(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing email sender: %w", err)
	}
	pub := delivery.NewPublisher(render.NewPDFRenderer(registry), store, mail, delivery.Config{
		Bucket:         cfg.Delivery.Bucket,
		Prefix:         cfg.Delivery.Prefix,
		LinkExpirySecs: cfg.Delivery.LinkExpirySecs,
		NotifyTo:       cfg.Delivery.NotifyTo,
		FormTitle:      cfg.Delivery.FormTitle,
	})
	return pub, store, nil
}

func runBackup(cfg *config.Config, registry *schema.Registry, args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	upload := fs.Bool("upload", false, "Upload the CSV to object storage.")
	email := fs.Bool("email", false, "Send a backup notice email.")
	nonStrict := fs.Bool("non-strict-header", false, "Do not fail if the worksheet header differs (not recommended).")
	emailTo := fs.String("email-to", "", "Comma-separated backup notice recipients (defaults to delivery notify list).")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.Backup.Path == "" {
		return fmt.Errorf("%w: COMPLAINTS_BACKUP_PATH", domain.ErrMissingConfig)
	}

	ctx := context.Background()
	sheet, err := excel.OpenSheet(cfg.Backup.Path, cfg.Backup.Sheet)
	if err != nil {
		return err
	}
	defer sheet.Close()

	records, err := backup.NewExtractor(sheet, registry).ExtractAll(ctx, !*nonStrict)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := os.MkdirAll(cfg.Backup.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating backup dir: %w", err)
	}
	csvPath := filepath.Join(cfg.Backup.OutDir, archive.BackupFilename(now))

	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("creating backup CSV: %w", err)
	}
	if err := writeBackupCSV(f, registry, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing backup CSV: %w", err)
	}
	log.Printf("backup: CSV written: %s (%d records)", csvPath, len(records))

	if !*upload && !*email {
		log.Printf("backup: no upload and no email requested, done")
		return nil
	}

	store, err := s3storage.NewClient(&cfg.S3)
	if err != nil {
		return fmt.Errorf("initializing object storage: %w", err)
	}

	csvLocation := ""
	logLocation := ""
	if *upload {
		data, err := os.ReadFile(csvPath)
		if err != nil {
			return fmt.Errorf("reading backup CSV: %w", err)
		}
		key := fmt.Sprintf("%s/backups/%s", cfg.Delivery.Prefix, filepath.Base(csvPath))
		out, err := store.Upload(ctx, port.UploadInput{
			Bucket:      cfg.Delivery.Bucket,
			Key:         key,
			Body:        bytes.NewReader(data),
			ContentType: "text/csv",
		})
		if err != nil {
			return fmt.Errorf("uploading backup CSV: %w", err)
		}
		csvLocation = out.Location
		log.Printf("backup: CSV uploaded: %s", csvLocation)

		// A short run log lives next to the CSV so a failed email still
		// leaves an audit trail in the bucket.
		runLog := fmt.Sprintf("backup run %s\nrecords: %d\ncsv: %s\nuploaded: %s\n",
			now.UTC().Format(time.RFC3339), len(records), csvPath, csvLocation)
		logKey := strings.TrimSuffix(key, ".csv") + ".log"
		logOut, err := store.Upload(ctx, port.UploadInput{
			Bucket:      cfg.Delivery.Bucket,
			Key:         logKey,
			Body:        strings.NewReader(runLog),
			ContentType: "text/plain",
		})
		if err != nil {
			return fmt.Errorf("uploading backup log: %w", err)
		}
		logLocation = logOut.Location
	}

	if *email {
		to := config.SplitEmails(*emailTo)
		if len(to) == 0 {
			to = cfg.Delivery.NotifyTo
		}
		if len(to) == 0 {
			log.Printf("backup: email requested but no recipients configured, skipping")
			return nil
		}
		mail, err := buildMailer(cfg)
		if err != nil {
			return fmt.Errorf("initializing email sender: %w", err)
		}
		notice := port.BackupNotice{
			Timestamp:   now.UTC().Format("20060102_150405"),
			RecordCount: len(records),
			CSVPath:     csvPath,
			CSVLocation: csvLocation,
			LogLocation: logLocation,
		}
		if err := mail.SendBackupNotice(ctx, to, notice); err != nil {
			return fmt.Errorf("sending backup notice: %w", err)
		}
		log.Printf("backup: notice sent to %v", to)
	}

	log.Printf("backup: finished OK")
	return nil
}

func runDispatch(cfg *config.Config, registry *schema.Registry, args []string) error {
	fs := flag.NewFlagSet("dispatch", flag.ContinueOnError)
	eventPath := fs.String("event", os.Getenv("DISPATCH_EVENT_PATH"), "Path to the dispatch event JSON.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *eventPath == "" {
		return fmt.Errorf("%w: -event / DISPATCH_EVENT_PATH", domain.ErrMissingConfig)
	}

	data, err := os.ReadFile(*eventPath)
	if err != nil {
		return fmt.Errorf("reading dispatch event: %w", err)
	}
	payload, err := dispatch.ParseEvent(data)
	if err != nil {
		return err
	}
	log.Printf("dispatch: loaded submission id=%s", payload.SubmissionID)

	pub, _, err := buildPublisher(cfg, registry)
	if err != nil {
		return err
	}
	result, err := pub.Publish(context.Background(), payload.Submission(registry))
	if err != nil {
		return err
	}
	log.Printf("dispatch: delivered submission id=%s pdf=%s", result.SubmissionID, result.PDFKey)
	return nil
}

func runPoll(cfg *config.Config, registry *schema.Registry, args []string) error {
	fs := flag.NewFlagSet("poll", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	pub, store, err := buildPublisher(cfg, registry)
	if err != nil {
		return err
	}

	var table *excel.Table
	switch cfg.Source.Kind {
	case "file":
		if cfg.Source.Path == "" {
			return fmt.Errorf("%w: COMPLAINTS_SOURCE_PATH", domain.ErrMissingConfig)
		}
		table, err = excel.OpenFileTable(cfg.Source.Path, cfg.Source.Sheet)
	case "s3":
		if cfg.Source.Bucket == "" || cfg.Source.Key == "" {
			return fmt.Errorf("%w: COMPLAINTS_SOURCE_BUCKET / COMPLAINTS_SOURCE_KEY", domain.ErrMissingConfig)
		}
		table, err = excel.OpenStoredTable(ctx, store, cfg.Source.Bucket, cfg.Source.Key, cfg.Source.Sheet)
	default:
		return fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
	if err != nil {
		return err
	}
	defer table.Close()

	count, err := poll.NewEngine(table, pub, registry).PollOnce(ctx)
	if err != nil {
		return err
	}
	log.Printf("poll: run complete, %d rows marked processed", count)
	return nil
}

func runServe(cfg *config.Config, registry *schema.Registry) error {
	pub, _, err := buildPublisher(cfg, registry)
	if err != nil {
		return err
	}

	webhookH := handler.NewWebhookHandler(registry, pub)
	healthH := handler.NewHealthHandler()
	r := router.Setup(&cfg.Webhook, webhookH, healthH)

	log.Printf("serve: listening on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// writeBackupCSV writes the BOM, the canonical header, and all records.
func writeBackupCSV(f *os.File, registry *schema.Registry, records []domain.Record) error {
	if _, err := f.Write(archive.BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	w := archive.NewWriter(f, registry)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	if err := w.WriteRecords(records); err != nil {
		return fmt.Errorf("writing CSV rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
