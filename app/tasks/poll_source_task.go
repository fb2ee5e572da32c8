package tasks

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Donny208/Hardware-Scrape/app/feed"
	"github.com/Donny208/Hardware-Scrape/app/notify"
)

type PollSourceTask struct {
	Task
	Source   feed.Source
	now      time.Time
	interval time.Duration
	client   feed.Client
	ingester Ingester
	matcher  *feed.KeywordMatcher
	sender   notify.Sender
	stats    *Stats
}

func NewPollSourceTask(source feed.Source, tickID string, now time.Time, interval time.Duration, client feed.Client,
	ingester Ingester, matcher *feed.KeywordMatcher, sender notify.Sender, stats *Stats) *PollSourceTask {
	return &PollSourceTask{
		Task:     NewTask(TaskTypePollSource, source.ID, tickID),
		Source:   source,
		now:      now,
		interval: interval,
		client:   client,
		ingester: ingester,
		matcher:  matcher,
		sender:   sender,
		stats:    stats,
	}
}

// Execute fetches the source once and handles each post in feed order. Only
// a failed fetch is returned; per-post errors are logged and counted.
func (t *PollSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	fetchCtx, cancel := context.WithTimeout(ctx, time.Duration(t.Source.Timeout)*time.Second)
	posts, err := t.client.FetchLatest(fetchCtx, t.Source, t.Source.GrabAmount)
	cancel()
	if err != nil {
		t.stats.fetchFailures.Add(1)
		return fmt.Errorf("failed to fetch source: %w", err)
	}

	inScopeCount := 0
	storedCount := 0
	matchCount := 0
	sentCount := 0

	for _, post := range posts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !feed.InScope(post, t.now, t.interval, t.Source.AcceptedTags) {
			continue
		}
		inScopeCount++
		t.stats.inScope.Add(1)

		stored := t.ingest(ctx, post)
		if stored {
			storedCount++
		}

		keyword, ok := t.matcher.FirstMatch(post)
		if !ok {
			continue
		}
		matchCount++
		t.stats.matches.Add(1)

		if t.Source.NotifyStoredOnly && !stored {
			slog.Debug("Match not newly stored, not notifying", "source", t.SourceID, "post_id", post.ExternalID, "keyword", keyword)
			continue
		}

		if t.notify(ctx, post, keyword) {
			sentCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceID,
		"tick", t.TickID,
		"duration", t.GetDuration(),
		"fetched", len(posts),
		"in_scope", inScopeCount,
		"stored", storedCount,
		"matches", matchCount,
		"notified", sentCount)

	return nil
}

// ingest reports whether the post was newly stored by this call.
func (t *PollSourceTask) ingest(ctx context.Context, post feed.Post) bool {
	if !t.Source.SaveToDB {
		return false
	}

	result, err := t.ingester.Ingest(ctx, post)
	if err != nil {
		t.stats.failed.Add(1)
		slog.Error("Failed to ingest post", "source", t.SourceID, "post_id", post.ExternalID, "error", err)
		return false
	}

	if !result.Stored() {
		t.stats.skipped.Add(1)
		slog.Debug("Post skipped", "source", t.SourceID, "post_id", post.ExternalID, "reason", result.Reason)
		return false
	}

	t.stats.stored.Add(1)
	slog.Debug("Post stored", "source", t.SourceID, "post_id", post.ExternalID, "user_id", result.UserID)
	return true
}

func (t *PollSourceTask) notify(ctx context.Context, post feed.Post, keyword string) bool {
	msg := notify.Message{
		SourceID: t.SourceID,
		Keyword:  keyword,
		URL:      cmp.Or(post.URL, post.Permalink),
		Title:    post.Title,
	}

	if err := t.sender.Send(ctx, msg); err != nil {
		t.stats.notificationsFail.Add(1)
		slog.Error("Failed to send notification", "source", t.SourceID, "post_id", post.ExternalID, "keyword", keyword, "error", err)
		return false
	}

	t.stats.notificationsSent.Add(1)
	slog.Info("Filter match sent", "source", t.SourceID, "post_id", post.ExternalID, "keyword", keyword)
	return true
}
