package notify

import (
	"context"
	"log/slog"
)

var _ Sender = (*LogSender)(nil)

// LogSender only logs matches. Used for dry runs.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	slog.Info("Filter match", "source", msg.SourceID, "keyword", msg.Keyword, "url", msg.URL, "title", msg.Title)
	return nil
}
