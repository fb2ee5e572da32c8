package tasks

import (
	"sync/atomic"
)

// Stats counts poll cycle outcomes since startup.
type Stats struct {
	ticks             atomic.Int64
	fetchFailures     atomic.Int64
	inScope           atomic.Int64
	stored            atomic.Int64
	skipped           atomic.Int64
	failed            atomic.Int64
	matches           atomic.Int64
	notificationsSent atomic.Int64
	notificationsFail atomic.Int64
}

type StatsSnapshot struct {
	Ticks             int64 `json:"ticks"`
	FetchFailures     int64 `json:"fetch_failures"`
	InScope           int64 `json:"in_scope"`
	Stored            int64 `json:"stored"`
	Skipped           int64 `json:"skipped"`
	Failed            int64 `json:"failed"`
	Matches           int64 `json:"matches"`
	NotificationsSent int64 `json:"notifications_sent"`
	NotificationsFail int64 `json:"notifications_failed"`
}

func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Ticks:             s.ticks.Load(),
		FetchFailures:     s.fetchFailures.Load(),
		InScope:           s.inScope.Load(),
		Stored:            s.stored.Load(),
		Skipped:           s.skipped.Load(),
		Failed:            s.failed.Load(),
		Matches:           s.matches.Load(),
		NotificationsSent: s.notificationsSent.Load(),
		NotificationsFail: s.notificationsFail.Load(),
	}
}
