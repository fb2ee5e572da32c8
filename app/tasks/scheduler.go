package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Donny208/Hardware-Scrape/app/feed"
	"github.com/Donny208/Hardware-Scrape/app/notify"
)

const (
	queueSize   = 300
	taskTimeout = 5 * time.Minute
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	configCache *feed.ConfigCache
	client      feed.Client
	ingester    Ingester
	matcher     *feed.KeywordMatcher
	sender      notify.Sender
	stats       *Stats
	interval    time.Duration
	workerCount int
	now         func() time.Time
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(configCache *feed.ConfigCache, client feed.Client, ingester Ingester, matcher *feed.KeywordMatcher,
	sender notify.Sender, stats *Stats, interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		configCache: configCache,
		client:      client,
		ingester:    ingester,
		matcher:     matcher,
		sender:      sender,
		stats:       stats,
		interval:    interval,
		workerCount: max(workerCount, 1),
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, queueSize),
	}
}

// Start launches the worker pool and the ticker. The first cycle is enqueued
// immediately.
func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// RunOnce runs a single cycle and waits for every source to finish. At most
// workerCount sources are polled at a time.
func (s *Scheduler) RunOnce(ctx context.Context) {
	tasks := s.buildTasks()

	sem := make(chan struct{}, s.workerCount)
	var wg sync.WaitGroup
	for _, task := range tasks {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			s.executeTask(ctx, -1, task)
		}()
	}
	wg.Wait()
}

// buildTasks stamps one task per enabled source with a shared tick id and
// window reference time.
func (s *Scheduler) buildTasks() []TaskInterface {
	sources := s.configCache.GetEnabledSources()
	s.stats.ticks.Add(1)

	if len(sources) == 0 {
		slog.Debug("No enabled sources found")
		return nil
	}

	tickID := uuid.NewString()
	now := s.now()

	slog.Debug("Starting poll cycle", "tick", tickID, "sources", len(sources))

	tasks := make([]TaskInterface, 0, len(sources))
	for _, source := range sources {
		tasks = append(tasks, NewPollSourceTask(source, tickID, now, s.interval,
			s.client, s.ingester, s.matcher, s.sender, s.stats))
	}
	return tasks
}

func (s *Scheduler) enqueueTasks() {
	for _, task := range s.buildTasks() {
		if err := s.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue PollSourceTask", "source", task.GetSourceID(), "tick", task.GetTickID(), "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(s.ctx, id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(ctx context.Context, workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(ctx, taskTimeout)
	defer cancel()

	if err := task.Execute(taskCtx); err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "source", task.GetSourceID(), "tick", task.GetTickID(), "error", err)
	}
}
