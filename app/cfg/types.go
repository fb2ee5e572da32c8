package cfg

import (
	"time"
)

type Cfg struct {
	// Polling
	RefreshRate  time.Duration
	SourcesFile  string
	KeywordsFile string
	WorkerCount  int
	Once         bool

	// Database
	DBDriver    string
	DatabaseURL string

	// Notifications
	Notifier        string
	TelegramToken   string
	TelegramChatID  string
	SlackWebhookURL string

	// Reddit script app
	RedditClientID     string
	RedditClientSecret string
	RedditUsername     string
	RedditPassword     string
	RedditUserAgent    string

	// Application metadata
	Port      string
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
