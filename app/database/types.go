package database

import (
	"time"
)

type User struct {
	ID        int64
	UserName  string
	Trades    int // -1 when the user's flair carries no trade count
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Post struct {
	ID         int64
	ExternalID string // Feed's own post id, unique across the table
	SourceID   string
	Permalink  string
	UserID     int64
	PostedAt   time.Time
	Country    string
	Region     string
	HaveText   string
	WantText   string
	IsSelling  bool
	Body       string
	CreatedAt  time.Time
}
