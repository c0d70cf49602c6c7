package backend

import (
	"context"
	"net/http"
	"strconv"

	"github.com/user/crawler-console/internal/entity"
	"github.com/user/crawler-console/internal/repository"
)

// TaskRepoImpl implements repository.TaskRepository over the backend REST API.
type TaskRepoImpl struct {
	client *Client
}

// NewTaskRepo creates a new instance of TaskRepoImpl.
func NewTaskRepo(client *Client) *TaskRepoImpl {
	return &TaskRepoImpl{client: client}
}

var _ repository.TaskRepository = (*TaskRepoImpl)(nil)

type messageBody struct {
	Message string `json:"message"`
}

func (r *TaskRepoImpl) List(ctx context.Context) ([]entity.Task, error) {
	var tasks []entity.Task
	err := r.client.doJSON(ctx, call{endpoint: "tasks.list", method: http.MethodGet, path: []string{"tasks"}}, &tasks)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepoImpl) Stats(ctx context.Context) (entity.TaskStats, error) {
	var stats entity.TaskStats
	err := r.client.doJSON(ctx, call{endpoint: "tasks.stats", method: http.MethodGet, path: []string{"tasks", "stats"}}, &stats)
	return stats, err
}

func (r *TaskRepoImpl) Create(ctx context.Context, task repository.NewTask) (*entity.Task, error) {
	var created entity.Task
	err := r.client.doJSON(ctx, call{
		endpoint: "tasks.create",
		method:   http.MethodPost,
		path:     []string{"tasks"},
		body:     task,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *TaskRepoImpl) Start(ctx context.Context, id int64) error {
	return r.client.doJSON(ctx, call{endpoint: "tasks.start", method: http.MethodPost, path: taskPath(id, "start")}, nil)
}

func (r *TaskRepoImpl) Stop(ctx context.Context, id int64) error {
	return r.client.doJSON(ctx, call{endpoint: "tasks.stop", method: http.MethodPost, path: taskPath(id, "stop")}, nil)
}

func (r *TaskRepoImpl) Delete(ctx context.Context, id int64) error {
	return r.client.doJSON(ctx, call{endpoint: "tasks.delete", method: http.MethodDelete, path: taskPath(id)}, nil)
}

func (r *TaskRepoImpl) CheckFailed(ctx context.Context) (string, error) {
	var body messageBody
	err := r.client.doJSON(ctx, call{endpoint: "tasks.check_failed", method: http.MethodPost, path: []string{"tasks", "check-failed"}}, &body)
	return body.Message, err
}

func (r *TaskRepoImpl) ForceRefresh(ctx context.Context) (string, error) {
	var body messageBody
	err := r.client.doJSON(ctx, call{endpoint: "tasks.force_refresh", method: http.MethodPost, path: []string{"tasks", "force-refresh"}}, &body)
	return body.Message, err
}

func (r *TaskRepoImpl) Health(ctx context.Context) error {
	return r.client.doJSON(ctx, call{endpoint: "health", method: http.MethodGet, path: []string{"health"}}, nil)
}

func taskPath(id int64, action ...string) []string {
	return append([]string{"tasks", strconv.FormatInt(id, 10)}, action...)
}
