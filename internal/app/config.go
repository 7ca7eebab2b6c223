package app

import (
	"context"
	"os"
	"strings"
	"time"

	"appstore_sales_bot/internal/appstore"
	"appstore_sales_bot/internal/config"
	"appstore_sales_bot/internal/cursor"
	"appstore_sales_bot/internal/metadata"
	"appstore_sales_bot/internal/rates"
	"appstore_sales_bot/internal/sheets"
	"appstore_sales_bot/internal/slack"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		// Default based on environment
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// GetRequiredEnv fetches a required environment variable or exits if not set.
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Msgf("%s environment variable is required", key)
	}
	return value
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Clients bundles everything one run needs.
type Clients struct {
	Reports  *appstore.Client
	Rates    *rates.Client
	Metadata *metadata.Client
	Cursor   *cursor.Store
	Sink     *slack.Client
	VendorID string
}

// InitializeClients builds all collaborators from the environment.
func InitializeClients(ctx context.Context) *Clients {
	log.Debug().Msg("Initializing clients")

	reportsURL := GetRequiredEnv("REPORT_SERVICE_URL")
	reportsToken := GetRequiredEnv("REPORT_SERVICE_TOKEN")
	vendorID := GetRequiredEnv("APPSTORE_VENDOR_ID")
	ratesURL := GetEnvWithDefault("RATES_URL", "https://openexchangerates.org/api")
	ratesAppID := GetRequiredEnv("RATES_APP_ID")
	lookupURL := GetEnvWithDefault("ITUNES_LOOKUP_URL", "https://itunes.apple.com")
	webhookURL := GetRequiredEnv("SLACK_WEBHOOK_URL")
	spreadsheetID := GetRequiredEnv("SPREADSHEET_ID")
	cursorCell := GetEnvWithDefault("CURSOR_CELL", "State!A1")
	credsFile := GetEnvWithDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json")

	sheetsClient, err := sheets.NewClient(ctx, credsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sheets client")
	}

	clients := &Clients{
		Reports:  appstore.NewClient(reportsURL, reportsToken),
		Rates:    rates.NewClient(ratesURL, ratesAppID),
		Metadata: metadata.NewClient(lookupURL),
		Cursor:   cursor.NewStore(sheetsClient, spreadsheetID, cursorCell, config.DefaultResilienceConfig.SheetAccess),
		Sink:     slack.NewClient(webhookURL, 3, 1*time.Second, 15*time.Second),
		VendorID: vendorID,
	}

	log.Debug().Msg("Clients initialized successfully")
	return clients
}
