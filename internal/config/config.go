package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all pipeline configuration.
type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Backup   BackupConfig
	Delivery DeliveryConfig
	S3       S3Config
	Email    EmailConfig
	Webhook  WebhookConfig
	Log      LogConfig
}

// ServerConfig holds webhook-receiver HTTP settings.
type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// SourceConfig locates the polled response workbook. Kind selects where the
// workbook lives: "file" (local path) or "s3" (bucket/key).
type SourceConfig struct {
	Kind   string `mapstructure:"kind"`
	Path   string `mapstructure:"path"`
	Bucket string `mapstructure:"bucket"`
	Key    string `mapstructure:"key"`
	Sheet  string `mapstructure:"sheet"`
}

// BackupConfig locates the complaints worksheet and the local output dir.
type BackupConfig struct {
	Path   string `mapstructure:"path"`
	Sheet  string `mapstructure:"sheet"`
	OutDir string `mapstructure:"out_dir"`
}

// DeliveryConfig holds artifact-delivery settings.
type DeliveryConfig struct {
	Bucket         string   `mapstructure:"bucket"`
	Prefix         string   `mapstructure:"prefix"`
	LinkExpirySecs int64    `mapstructure:"link_expiry_secs"`
	NotifyTo       []string `mapstructure:"notify_to"`
	FormTitle      string   `mapstructure:"form_title"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// WebhookConfig holds inbound webhook authentication settings.
type WebhookConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the COMPLAINTS_
// prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COMPLAINTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.environment", "development")

	// Source defaults
	v.SetDefault("source.kind", "file")
	v.SetDefault("source.path", "")
	v.SetDefault("source.bucket", "")
	v.SetDefault("source.key", "")
	v.SetDefault("source.sheet", "Form1")

	// Backup defaults
	v.SetDefault("backup.path", "")
	v.SetDefault("backup.sheet", "Complaints")
	v.SetDefault("backup.out_dir", "backups")

	// Delivery defaults
	v.SetDefault("delivery.bucket", "redentnova-complaints")
	v.SetDefault("delivery.prefix", "complaints")
	v.SetDefault("delivery.link_expiry_secs", 0)
	v.SetDefault("delivery.notify_to", "")
	v.SetDefault("delivery.form_title", "Customer Complaint Form")

	// S3 defaults
	v.SetDefault("s3.region", "eu-north-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "eu-north-1")
	v.SetDefault("email.from_address", "complaints@redentnova.example")
	v.SetDefault("email.from_name", "Complaints Pipeline")

	// Webhook defaults
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.issuer", "complaints-pipeline")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "COMPLAINTS_SERVER_PORT",
		"server.environment":        "COMPLAINTS_SERVER_ENVIRONMENT",
		"source.kind":               "COMPLAINTS_SOURCE_KIND",
		"source.path":               "COMPLAINTS_SOURCE_PATH",
		"source.bucket":             "COMPLAINTS_SOURCE_BUCKET",
		"source.key":                "COMPLAINTS_SOURCE_KEY",
		"source.sheet":              "COMPLAINTS_SOURCE_SHEET",
		"backup.path":               "COMPLAINTS_BACKUP_PATH",
		"backup.sheet":              "COMPLAINTS_BACKUP_SHEET",
		"backup.out_dir":            "COMPLAINTS_BACKUP_OUT_DIR",
		"delivery.bucket":           "COMPLAINTS_DELIVERY_BUCKET",
		"delivery.prefix":           "COMPLAINTS_DELIVERY_PREFIX",
		"delivery.link_expiry_secs": "COMPLAINTS_DELIVERY_LINK_EXPIRY_SECS",
		"delivery.notify_to":        "COMPLAINTS_DELIVERY_NOTIFY_TO",
		"delivery.form_title":       "COMPLAINTS_DELIVERY_FORM_TITLE",
		"s3.region":                 "COMPLAINTS_S3_REGION",
		"s3.endpoint":               "COMPLAINTS_S3_ENDPOINT",
		"s3.access_key":             "COMPLAINTS_S3_ACCESS_KEY",
		"s3.secret_key":             "COMPLAINTS_S3_SECRET_KEY",
		"email.provider":            "COMPLAINTS_EMAIL_PROVIDER",
		"email.region":              "COMPLAINTS_EMAIL_REGION",
		"email.from_address":        "COMPLAINTS_EMAIL_FROM_ADDRESS",
		"email.from_name":           "COMPLAINTS_EMAIL_FROM_NAME",
		"webhook.secret":            "COMPLAINTS_WEBHOOK_SECRET",
		"webhook.issuer":            "COMPLAINTS_WEBHOOK_ISSUER",
		"log.level":                 "COMPLAINTS_LOG_LEVEL",
		"log.format":                "COMPLAINTS_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	cfg.Server = ServerConfig{
		Port:        v.GetString("server.port"),
		Environment: v.GetString("server.environment"),
	}
	cfg.Source = SourceConfig{
		Kind:   v.GetString("source.kind"),
		Path:   v.GetString("source.path"),
		Bucket: v.GetString("source.bucket"),
		Key:    v.GetString("source.key"),
		Sheet:  v.GetString("source.sheet"),
	}
	cfg.Backup = BackupConfig{
		Path:   v.GetString("backup.path"),
		Sheet:  v.GetString("backup.sheet"),
		OutDir: v.GetString("backup.out_dir"),
	}
	cfg.Delivery = DeliveryConfig{
		Bucket:         v.GetString("delivery.bucket"),
		Prefix:         v.GetString("delivery.prefix"),
		LinkExpirySecs: v.GetInt64("delivery.link_expiry_secs"),
		NotifyTo:       SplitEmails(v.GetString("delivery.notify_to")),
		FormTitle:      v.GetString("delivery.form_title"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Webhook = WebhookConfig{
		Secret: v.GetString("webhook.secret"),
		Issuer: v.GetString("webhook.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}

// SplitEmails parses a comma-separated recipient list, dropping blanks.
func SplitEmails(s string) []string {
	var out []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}
