package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypePollSource TaskType = "poll_source"
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetSourceID() string
	GetTickID() string
	Start()
	GetDuration() time.Duration
}

type Task struct {
	ID        string
	Type      TaskType
	SourceID  string
	TickID    string
	StartedAt *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetSourceID() string {
	return t.SourceID
}

func (t *Task) GetTickID() string {
	return t.TickID
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType, sourceID, tickID string) Task {
	return Task{
		ID:       uuid.NewString(),
		Type:     taskType,
		SourceID: sourceID,
		TickID:   tickID,
	}
}
