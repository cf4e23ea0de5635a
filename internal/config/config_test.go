package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "file", cfg.Source.Kind)
	assert.Equal(t, "Form1", cfg.Source.Sheet)
	assert.Equal(t, "Complaints", cfg.Backup.Sheet)
	assert.Equal(t, "backups", cfg.Backup.OutDir)
	assert.Equal(t, "redentnova-complaints", cfg.Delivery.Bucket)
	assert.Equal(t, "complaints", cfg.Delivery.Prefix)
	assert.Empty(t, cfg.Delivery.NotifyTo)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Equal(t, "eu-north-1", cfg.S3.Region)
	assert.Empty(t, cfg.Webhook.Secret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COMPLAINTS_SOURCE_KIND", "s3")
	t.Setenv("COMPLAINTS_SOURCE_BUCKET", "forms-bucket")
	t.Setenv("COMPLAINTS_SOURCE_KEY", "responses.xlsx")
	t.Setenv("COMPLAINTS_DELIVERY_NOTIFY_TO", "ops@example.com, qa@example.com")
	t.Setenv("COMPLAINTS_DELIVERY_LINK_EXPIRY_SECS", "3600")
	t.Setenv("COMPLAINTS_EMAIL_PROVIDER", "ses")
	t.Setenv("COMPLAINTS_WEBHOOK_SECRET", "hush")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "s3", cfg.Source.Kind)
	assert.Equal(t, "forms-bucket", cfg.Source.Bucket)
	assert.Equal(t, "responses.xlsx", cfg.Source.Key)
	assert.Equal(t, []string{"ops@example.com", "qa@example.com"}, cfg.Delivery.NotifyTo)
	assert.Equal(t, int64(3600), cfg.Delivery.LinkExpirySecs)
	assert.Equal(t, "ses", cfg.Email.Provider)
	assert.Equal(t, "hush", cfg.Webhook.Secret)
}

func TestSplitEmails(t *testing.T) {
	assert.Nil(t, config.SplitEmails(""))
	assert.Nil(t, config.SplitEmails(" , ,"))
	assert.Equal(t, []string{"a@b.c"}, config.SplitEmails("a@b.c"))
	assert.Equal(t, []string{"a@b.c", "d@e.f"}, config.SplitEmails(" a@b.c ,, d@e.f "))
}
