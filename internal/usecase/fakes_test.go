package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/user/crawler-console/internal/entity"
	"github.com/user/crawler-console/internal/repository"
)

var errNotStubbed = errors.New("not stubbed")

type fakeTaskRepo struct {
	ListFunc         func(ctx context.Context) ([]entity.Task, error)
	StatsFunc        func(ctx context.Context) (entity.TaskStats, error)
	CreateFunc       func(ctx context.Context, task repository.NewTask) (*entity.Task, error)
	StartFunc        func(ctx context.Context, id int64) error
	StopFunc         func(ctx context.Context, id int64) error
	DeleteFunc       func(ctx context.Context, id int64) error
	CheckFailedFunc  func(ctx context.Context) (string, error)
	ForceRefreshFunc func(ctx context.Context) (string, error)
	HealthFunc       func(ctx context.Context) error

	mu    sync.Mutex
	calls []string
}

func (f *fakeTaskRepo) called(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeTaskRepo) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeTaskRepo) List(ctx context.Context) ([]entity.Task, error) {
	f.called("List")
	if f.ListFunc == nil {
		return nil, errNotStubbed
	}
	return f.ListFunc(ctx)
}

func (f *fakeTaskRepo) Stats(ctx context.Context) (entity.TaskStats, error) {
	f.called("Stats")
	if f.StatsFunc == nil {
		return entity.TaskStats{}, errNotStubbed
	}
	return f.StatsFunc(ctx)
}

func (f *fakeTaskRepo) Create(ctx context.Context, task repository.NewTask) (*entity.Task, error) {
	f.called("Create")
	if f.CreateFunc == nil {
		return nil, errNotStubbed
	}
	return f.CreateFunc(ctx, task)
}

func (f *fakeTaskRepo) Start(ctx context.Context, id int64) error {
	f.called("Start")
	if f.StartFunc == nil {
		return errNotStubbed
	}
	return f.StartFunc(ctx, id)
}

func (f *fakeTaskRepo) Stop(ctx context.Context, id int64) error {
	f.called("Stop")
	if f.StopFunc == nil {
		return errNotStubbed
	}
	return f.StopFunc(ctx, id)
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id int64) error {
	f.called("Delete")
	if f.DeleteFunc == nil {
		return errNotStubbed
	}
	return f.DeleteFunc(ctx, id)
}

func (f *fakeTaskRepo) CheckFailed(ctx context.Context) (string, error) {
	f.called("CheckFailed")
	if f.CheckFailedFunc == nil {
		return "", errNotStubbed
	}
	return f.CheckFailedFunc(ctx)
}

func (f *fakeTaskRepo) ForceRefresh(ctx context.Context) (string, error) {
	f.called("ForceRefresh")
	if f.ForceRefreshFunc == nil {
		return "", errNotStubbed
	}
	return f.ForceRefreshFunc(ctx)
}

func (f *fakeTaskRepo) Health(ctx context.Context) error {
	f.called("Health")
	if f.HealthFunc == nil {
		return nil
	}
	return f.HealthFunc(ctx)
}

type fakeDataRepo struct {
	PageFunc   func(ctx context.Context, q repository.DataQuery) (*entity.PageResult[entity.DataRecord], error)
	SearchFunc func(ctx context.Context, keyword string) ([]entity.DataRecord, error)
	StatsFunc  func(ctx context.Context) (entity.DataStats, error)
	ExportFunc func(ctx context.Context, q repository.ExportQuery) (*repository.ExportFile, error)

	mu      sync.Mutex
	queries []repository.DataQuery
}

func (f *fakeDataRepo) Queries() []repository.DataQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]repository.DataQuery(nil), f.queries...)
}

func (f *fakeDataRepo) Page(ctx context.Context, q repository.DataQuery) (*entity.PageResult[entity.DataRecord], error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	if f.PageFunc == nil {
		return nil, errNotStubbed
	}
	return f.PageFunc(ctx, q)
}

func (f *fakeDataRepo) Search(ctx context.Context, keyword string) ([]entity.DataRecord, error) {
	if f.SearchFunc == nil {
		return nil, errNotStubbed
	}
	return f.SearchFunc(ctx, keyword)
}

func (f *fakeDataRepo) Stats(ctx context.Context) (entity.DataStats, error) {
	if f.StatsFunc == nil {
		return entity.DataStats{}, errNotStubbed
	}
	return f.StatsFunc(ctx)
}

func (f *fakeDataRepo) Export(ctx context.Context, q repository.ExportQuery) (*repository.ExportFile, error) {
	if f.ExportFunc == nil {
		return nil, errNotStubbed
	}
	return f.ExportFunc(ctx, q)
}

type fakeRefresher struct {
	mu        sync.Mutex
	refreshes int
	delays    []time.Duration
	err       error
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.err
}

func (f *fakeRefresher) RefreshAfter(delay time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays = append(f.delays, delay)
}

func (f *fakeRefresher) Counts() (int, []time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes, append([]time.Duration(nil), f.delays...)
}

func intPtr(n int) *int { return &n }
