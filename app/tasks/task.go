package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const TaskTypeGeneratePost TaskType = "generate_post"

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	Start()
	Finish()
	GetDuration() time.Duration
}

// Task holds the identity and timing shared by pipeline tasks.
type Task struct {
	ID         string
	Type       TaskType
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// NewTask creates a task with a time-ordered id, so ids sort by creation.
func NewTask(taskType TaskType) Task {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return Task{ID: id.String(), Type: taskType}
}

func (t *Task) GetID() string     { return t.ID }
func (t *Task) GetType() TaskType { return t.Type }

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
	t.FinishedAt = nil
}

func (t *Task) Finish() {
	if t.StartedAt == nil {
		return
	}
	now := time.Now()
	t.FinishedAt = &now
}

// GetDuration is the run time so far, or the total once finished.
func (t *Task) GetDuration() time.Duration {
	switch {
	case t.StartedAt == nil:
		return 0
	case t.FinishedAt != nil:
		return t.FinishedAt.Sub(*t.StartedAt)
	default:
		return time.Since(*t.StartedAt)
	}
}
