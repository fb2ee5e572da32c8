package notify

import (
	"context"
)

const (
	KindLog      = "log"
	KindTelegram = "telegram"
	KindSlack    = "slack"
)

// Message describes one keyword hit on one post.
type Message struct {
	SourceID string
	Keyword  string
	URL      string
	Title    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}
