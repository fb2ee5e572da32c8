package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

var (
	drivers   = []string{"sqlite", "postgres"}
	notifiers = []string{"log", "telegram", "slack"}
)

type rawCfg struct {
	// Polling configuration
	RefreshRate  int    `long:"refresh-rate" env:"REFRESH_RATE" description:"Minutes between poll cycles (required)"`
	SourcesFile  string `long:"sources-file" env:"SOURCES_FILE" default:"./config/sources.yml" description:"YAML file listing the feeds to poll"`
	KeywordsFile string `long:"keywords-file" env:"KEYWORDS_FILE" default:"./config/keywords.yml" description:"YAML file listing the keywords to match"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"4" description:"Number of sources polled concurrently"`
	Once         bool   `long:"once" description:"Run a single poll cycle and exit"`

	// Database configuration
	DBDriver    string `long:"db-driver" env:"DB_DRIVER" default:"sqlite" description:"Database driver (sqlite or postgres)"`
	DatabaseURL string `long:"database-url" env:"DATABASE_URL" default:"./hardware-scrape.db" description:"SQLite file path or PostgreSQL connection string"`

	// Notification configuration
	Notifier        string `long:"notifier" env:"NOTIFIER" default:"telegram" description:"Where matches are sent (log, telegram or slack)"`
	TelegramToken   string `long:"telegram-token" env:"TELEGRAM_TOKEN" description:"Telegram bot token"`
	TelegramChatID  string `long:"telegram-chat-id" env:"TELEGRAM_CHAT_ID" description:"Telegram chat receiving matches"`
	SlackWebhookURL string `long:"slack-webhook-url" env:"SLACK_WEBHOOK_URL" description:"Slack incoming webhook URL"`

	// Reddit configuration
	RedditClientID     string `long:"reddit-client-id" env:"REDDIT_CLIENT_ID" description:"Reddit script app client id"`
	RedditClientSecret string `long:"reddit-client-secret" env:"REDDIT_CLIENT_SECRET" description:"Reddit script app secret"`
	RedditUsername     string `long:"reddit-username" env:"REDDIT_USERNAME" description:"Reddit account user name"`
	RedditPassword     string `long:"reddit-password" env:"REDDIT_PASSWORD" description:"Reddit account password"`
	RedditUserAgent    string `long:"reddit-user-agent" env:"REDDIT_USER_AGENT" description:"User agent sent to the reddit API (defaults to USER_AGENT)"`

	// Application metadata
	Port      string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Hardware-Scrape/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load reads .env (if present), then environment variables and command-line
// flags. It returns nil, nil when help was requested.
func Load() (*Cfg, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := LoadArgs(os.Args[1:])
	if err != nil || cfg == nil {
		return cfg, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	return cfg, nil
}

// LoadArgs parses args and the process environment without touching .env.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return &Cfg{
		RefreshRate:        time.Duration(raw.RefreshRate) * time.Minute,
		SourcesFile:        raw.SourcesFile,
		KeywordsFile:       raw.KeywordsFile,
		WorkerCount:        raw.WorkerCount,
		Once:               raw.Once,
		DBDriver:           strings.ToLower(raw.DBDriver),
		DatabaseURL:        raw.DatabaseURL,
		Notifier:           strings.ToLower(raw.Notifier),
		TelegramToken:      raw.TelegramToken,
		TelegramChatID:     raw.TelegramChatID,
		SlackWebhookURL:    raw.SlackWebhookURL,
		RedditClientID:     raw.RedditClientID,
		RedditClientSecret: raw.RedditClientSecret,
		RedditUsername:     raw.RedditUsername,
		RedditPassword:     raw.RedditPassword,
		RedditUserAgent:    cmp.Or(raw.RedditUserAgent, raw.UserAgent),
		Port:               raw.Port,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}, nil
}

// ValidationError lists every setting that stops the service from starting.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required settings: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid settings: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

// Validate checks the settings the selected notifier and database need.
// Reddit credentials are only required when requireReddit is set, i.e. when
// an enabled source is a subreddit.
func (c *Cfg) Validate(requireReddit bool) error {
	verr := &ValidationError{}

	missing := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			verr.Missing = append(verr.Missing, name)
		}
	}

	if c.RefreshRate <= 0 {
		verr.Missing = append(verr.Missing, "REFRESH_RATE")
	}
	missing("SOURCES_FILE", c.SourcesFile)
	missing("KEYWORDS_FILE", c.KeywordsFile)
	missing("DATABASE_URL", c.DatabaseURL)

	if c.WorkerCount < 1 {
		verr.Invalid = append(verr.Invalid, fmt.Sprintf("WORKER_COUNT=%d (must be at least 1)", c.WorkerCount))
	}
	if !slices.Contains(drivers, c.DBDriver) {
		verr.Invalid = append(verr.Invalid, fmt.Sprintf("DB_DRIVER=%q (want one of %s)", c.DBDriver, strings.Join(drivers, ", ")))
	}

	switch c.Notifier {
	case "telegram":
		missing("TELEGRAM_TOKEN", c.TelegramToken)
		missing("TELEGRAM_CHAT_ID", c.TelegramChatID)
	case "slack":
		missing("SLACK_WEBHOOK_URL", c.SlackWebhookURL)
	case "log":
	default:
		verr.Invalid = append(verr.Invalid, fmt.Sprintf("NOTIFIER=%q (want one of %s)", c.Notifier, strings.Join(notifiers, ", ")))
	}

	if requireReddit {
		missing("REDDIT_CLIENT_ID", c.RedditClientID)
		missing("REDDIT_CLIENT_SECRET", c.RedditClientSecret)
		missing("REDDIT_USERNAME", c.RedditUsername)
		missing("REDDIT_PASSWORD", c.RedditPassword)
	}

	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return verr
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
