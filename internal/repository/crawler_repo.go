package repository

import (
	"context"

	"github.com/user/crawler-console/internal/entity"
)

// NewTask is the payload for creating a crawl task on the backend.
type NewTask struct {
	TaskName    string `json:"taskName"`
	URL         string `json:"url"`
	MaxPages    int    `json:"maxPages"`
	Description string `json:"description"`
}

// TaskRepository defines the contract for the backend's crawl task lifecycle.
type TaskRepository interface {
	// List returns every task the backend knows about.
	List(ctx context.Context) ([]entity.Task, error)
	// Stats returns per-status task counts.
	Stats(ctx context.Context) (entity.TaskStats, error)
	// Create submits a new task and returns it as stored by the backend.
	Create(ctx context.Context, task NewTask) (*entity.Task, error)
	Start(ctx context.Context, id int64) error
	Stop(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	// CheckFailed asks the backend to sweep stuck or failed tasks. The sweep
	// runs asynchronously; the returned string is the backend's message.
	CheckFailed(ctx context.Context) (string, error)
	// ForceRefresh asks the backend to resynchronise task state from its store.
	ForceRefresh(ctx context.Context) (string, error)
	// Health reports whether the backend is reachable.
	Health(ctx context.Context) error
}
