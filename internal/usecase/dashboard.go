package usecase

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/user/crawler-console/internal/entity"
)

// Dashboard is the console's cached copy of backend task state. Only
// refreshes write to it; lifecycle actions never edit it directly.
type Dashboard struct {
	mu        sync.RWMutex
	tasks     []entity.Task
	taskStats entity.TaskStats
	dataStats entity.DataStats
	loaded    bool
	updatedAt time.Time
}

// DashboardSnapshot is an immutable copy of the dashboard.
type DashboardSnapshot struct {
	Tasks     []entity.Task
	TaskStats entity.TaskStats
	DataStats entity.DataStats
	Loaded    bool
	UpdatedAt time.Time
}

func NewDashboard() *Dashboard {
	return &Dashboard{}
}

func (d *Dashboard) SetTasks(tasks []entity.Task, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks = slices.Clone(tasks)
	d.loaded = true
	d.updatedAt = at
}

func (d *Dashboard) SetTaskStats(stats entity.TaskStats, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.taskStats = cloneTaskStats(stats)
	d.updatedAt = at
}

func (d *Dashboard) SetDataStats(stats entity.DataStats, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dataStats = cloneDataStats(stats)
	d.updatedAt = at
}

// Task returns the cached task with the given id.
func (d *Dashboard) Task(id int64) (entity.Task, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, t := range d.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return entity.Task{}, false
}

func (d *Dashboard) Snapshot() DashboardSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return DashboardSnapshot{
		Tasks:     slices.Clone(d.tasks),
		TaskStats: cloneTaskStats(d.taskStats),
		DataStats: cloneDataStats(d.dataStats),
		Loaded:    d.loaded,
		UpdatedAt: d.updatedAt,
	}
}

func cloneTaskStats(s entity.TaskStats) entity.TaskStats {
	s.ByStatus = maps.Clone(s.ByStatus)
	return s
}

func cloneDataStats(s entity.DataStats) entity.DataStats {
	s.PageStats = maps.Clone(s.PageStats)
	return s
}
