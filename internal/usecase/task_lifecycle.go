package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/crawler-console/internal/entity"
	"github.com/user/crawler-console/internal/repository"
	"github.com/user/crawler-console/pkg/metrics"
)

// CreateTaskInput is what the operator fills in to create a crawl task.
type CreateTaskInput struct {
	Name        string
	URL         string
	MaxPages    int
	Description string
}

// Validate checks the required fields before anything is sent.
func (in CreateTaskInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "taskName", Message: "is required"}
	}
	if strings.TrimSpace(in.URL) == "" {
		return &ValidationError{Field: "url", Message: "is required"}
	}
	if in.MaxPages <= 0 {
		return &ValidationError{Field: "maxPages", Message: "must be a positive number"}
	}
	return nil
}

// TaskLifecycle issues lifecycle commands for crawl tasks. It never edits
// the Dashboard itself: after the backend confirms a command it asks the
// Refresher to re-fetch.
type TaskLifecycle struct {
	tasks            repository.TaskRepository
	dashboard        *Dashboard
	refresher        Refresher
	notifier         *Notifier
	logger           *zap.Logger
	metrics          *metrics.Metrics
	checkFailedDelay time.Duration
}

func NewTaskLifecycle(
	tasks repository.TaskRepository,
	dashboard *Dashboard,
	refresher Refresher,
	notifier *Notifier,
	checkFailedDelay time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) *TaskLifecycle {
	return &TaskLifecycle{
		tasks:            tasks,
		dashboard:        dashboard,
		refresher:        refresher,
		notifier:         notifier,
		logger:           logger,
		metrics:          m,
		checkFailedDelay: checkFailedDelay,
	}
}

// Create validates the input locally and submits the task.
func (l *TaskLifecycle) Create(ctx context.Context, in CreateTaskInput) (*entity.Task, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.URL = strings.TrimSpace(in.URL)
	in.Description = strings.TrimSpace(in.Description)

	if err := in.Validate(); err != nil {
		l.record("create", "invalid")
		l.notifier.Failure("Please fill in the required fields: " + err.Error())
		return nil, err
	}

	task, err := l.tasks.Create(ctx, repository.NewTask{
		TaskName:    in.Name,
		URL:         in.URL,
		MaxPages:    in.MaxPages,
		Description: in.Description,
	})
	if err != nil {
		l.fail("create", 0, err)
		return nil, fmt.Errorf("create task: %w", err)
	}

	l.record("create", "success")
	l.logger.Info("task created", zap.Int64("task_id", task.ID), zap.String("task_name", task.TaskName))
	l.notifier.Success(fmt.Sprintf("Task %q created", task.TaskName))
	l.refresh(ctx)
	return task, nil
}

func (l *TaskLifecycle) Start(ctx context.Context, id int64) error {
	return l.run(ctx, entity.ActionStart, id, l.tasks.Start)
}

func (l *TaskLifecycle) Stop(ctx context.Context, id int64) error {
	return l.run(ctx, entity.ActionStop, id, l.tasks.Stop)
}

func (l *TaskLifecycle) Delete(ctx context.Context, id int64) error {
	return l.run(ctx, entity.ActionDelete, id, l.tasks.Delete)
}

// run gates action on the cached status, sends it, and refreshes on success.
// A rejected command leaves the cached task untouched.
func (l *TaskLifecycle) run(ctx context.Context, action entity.Action, id int64, send func(context.Context, int64) error) error {
	task, ok := l.dashboard.Task(id)
	if !ok {
		l.record(string(action), "not_found")
		l.notifier.Failure(fmt.Sprintf("%s failed: task %d not found", actionTitle(action), id))
		return fmt.Errorf("%s task %d: %w", action, id, ErrTaskNotFound)
	}
	if !entity.PermittedActions(task.Status).Allows(action) {
		l.record(string(action), "not_permitted")
		l.notifier.Failure(fmt.Sprintf("%s is not available for %s tasks", actionTitle(action), strings.ToLower(task.Status.Label())))
		return fmt.Errorf("%s task %d (%s): %w", action, id, task.Status, ErrActionNotPermitted)
	}

	if err := send(ctx, id); err != nil {
		l.fail(string(action), id, err)
		return fmt.Errorf("%s task %d: %w", action, id, err)
	}

	l.record(string(action), "success")
	l.logger.Info("task lifecycle command accepted", zap.String("action", string(action)), zap.Int64("task_id", id))
	l.notifier.Success(fmt.Sprintf("Task %q: %s succeeded", task.TaskName, action))
	l.refresh(ctx)
	return nil
}

// CheckFailedTasks triggers the backend's sweep for stuck or failed tasks.
// The sweep finishes asynchronously, so the refresh is delayed.
func (l *TaskLifecycle) CheckFailedTasks(ctx context.Context) (string, error) {
	msg, err := l.tasks.CheckFailed(ctx)
	if err != nil {
		l.fail("check_failed", 0, err)
		return "", fmt.Errorf("check failed tasks: %w", err)
	}

	l.record("check_failed", "success")
	l.notifier.Success("Failed task check triggered: " + msg)
	l.refresher.RefreshAfter(l.checkFailedDelay)
	return msg, nil
}

// ForceRefresh asks the backend to resynchronise task state, then reloads.
func (l *TaskLifecycle) ForceRefresh(ctx context.Context) (string, error) {
	msg, err := l.tasks.ForceRefresh(ctx)
	if err != nil {
		l.fail("force_refresh", 0, err)
		return "", fmt.Errorf("force refresh: %w", err)
	}

	l.record("force_refresh", "success")
	l.notifier.Success("Task state resynchronised: " + msg)
	l.refresh(ctx)
	return msg, nil
}

func (l *TaskLifecycle) refresh(ctx context.Context) {
	if err := l.refresher.Refresh(ctx); err != nil {
		l.logger.Warn("refresh after lifecycle command failed", zap.Error(err))
	}
}

func (l *TaskLifecycle) fail(action string, id int64, err error) {
	l.record(action, "failure")
	l.logger.Warn("task lifecycle command failed",
		zap.String("action", action),
		zap.Int64("task_id", id),
		zap.Error(err),
	)
	l.notifier.Failure(fmt.Sprintf("%s failed: %s", actionTitle(entity.Action(action)), err.Error()))
}

func (l *TaskLifecycle) record(action, outcome string) {
	if l.metrics != nil {
		l.metrics.IncLifecycleAction(action, outcome)
	}
}

func actionTitle(action entity.Action) string {
	switch action {
	case entity.ActionStart:
		return "Start"
	case entity.ActionStop:
		return "Stop"
	case entity.ActionDelete:
		return "Delete"
	case "create":
		return "Create"
	case "check_failed":
		return "Failed task check"
	case "force_refresh":
		return "Force refresh"
	default:
		return string(action)
	}
}
