package feed

// Feed processing types

// Post is a candidate fetched from a source during one poll tick.
type Post struct {
	ExternalID  string
	SourceID    string
	Title       string
	Body        string
	Author      string
	AuthorBadge *string // author flair text, nil when the author has none
	Tag         *string // link flair, nil when the post is untagged
	URL         string
	Permalink   string
	CreatedUTC  float64 // feed-supplied epoch seconds
}

// Configuration types

type SourceKind string

const (
	SourceKindReddit SourceKind = "reddit"
	SourceKindRSS    SourceKind = "rss"
)

type Source struct {
	ID               string     `yaml:"id"`
	Kind             SourceKind `yaml:"kind"`
	URL              string     `yaml:"url"` // feed URL, rss sources only
	Enabled          bool       `yaml:"enabled"`
	AcceptedTags     []string   `yaml:"accepted_flair"`
	GrabAmount       int        `yaml:"grab_amount"`
	SaveToDB         bool       `yaml:"save_to_db"`
	NotifyStoredOnly bool       `yaml:"notify_stored_only"` // notify only posts newly stored this tick
	Timeout          int        `yaml:"timeout"`            // seconds
}

type SourceFile struct {
	Sources []Source `yaml:"sources"`
}

type KeywordFile struct {
	Keywords []string `yaml:"keywords"`
}
