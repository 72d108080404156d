package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Notify    NotifyConfig
	Sheets    SheetsConfig
	Scheduler SchedulerConfig
	AI        AIConfig
	MongoDB   MongoDBConfig
	Storage   StorageConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// NotifyConfig contains credentials and options for the WhatsApp Cloud API
// used to push agenda digests and weekly reports.
type NotifyConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	GroupID       string
}

// SheetsConfig contains configuration required to export reports to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// SchedulerConfig holds cron settings for the daily agenda digest and the
// weekly flock report.
type SchedulerConfig struct {
	AgendaCron string
	ReportCron string
	Timezone   string
}

// AIConfig holds settings for LLM providers.
type AIConfig struct {
	AnthropicKey string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// StorageConfig selects the fallback JSON store used when MongoDB is not
// configured.
type StorageConfig struct {
	DataDir string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes
		// from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Notify: NotifyConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			GroupID:       os.Getenv("WHATSAPP_GROUP_ID"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Scheduler: SchedulerConfig{
			AgendaCron: getenvWithDefault("AGENDA_CRON_SCHEDULE", "0 7 * * *"),
			ReportCron: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * 0"),
			Timezone:   getenvWithDefault("TIMEZONE", "Europe/Madrid"),
		},
		AI: AIConfig{
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "ovinet"),
		},
		Storage: StorageConfig{
			DataDir: getenvWithDefault("DATA_DIR", "data"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
// Notification, Sheets and AI integrations are optional; the server runs
// without them and the scheduler skips the jobs that need them.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.NotifyEnabled() {
		switch {
		case c.Notify.AccessToken == "":
			return errors.New("WHATSAPP_TOKEN must be provided when notifications are configured")
		case c.Notify.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided when notifications are configured")
		case c.Notify.GroupID == "":
			return errors.New("WHATSAPP_GROUP_ID must be provided when notifications are configured")
		}
	}

	if c.SheetsEnabled() {
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when sheets export is configured")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided when sheets export is configured")
		}
	}

	if c.Scheduler.AgendaCron == "" {
		return errors.New("AGENDA_CRON_SCHEDULE must be provided")
	}
	if c.Scheduler.ReportCron == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}
	if c.Scheduler.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.MongoDB.URI == "" && c.Storage.DataDir == "" {
		return errors.New("either MONGODB_URI or DATA_DIR must be provided")
	}

	return nil
}

// NotifyEnabled reports whether any WhatsApp credential was configured.
func (c *Config) NotifyEnabled() bool {
	return c.Notify.AccessToken != "" || c.Notify.PhoneNumberID != "" || c.Notify.GroupID != ""
}

// SheetsEnabled reports whether any Sheets credential was configured.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.CredentialsPath != "" || c.Sheets.SpreadsheetID != ""
}

// AIEnabled reports whether the Anthropic key was configured.
func (c *Config) AIEnabled() bool {
	return c.AI.AnthropicKey != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
