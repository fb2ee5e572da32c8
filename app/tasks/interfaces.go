package tasks

import (
	"context"

	"github.com/Donny208/Hardware-Scrape/app/feed"
	"github.com/Donny208/Hardware-Scrape/app/intake"
)

// TaskSchedulerInterface runs poll cycles over the enabled sources.
//
//	scheduler := NewScheduler(configCache, client, pipeline, matcher, sender, stats, interval, workers)
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	RunOnce(ctx context.Context)
}

// Ingester persists in-scope posts of sources with save_to_db set.
type Ingester interface {
	Ingest(ctx context.Context, post feed.Post) (intake.Result, error)
}

var _ Ingester = (*intake.Pipeline)(nil)
