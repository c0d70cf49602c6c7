// Package view turns console state into the models the HTML templates
// render. The builders are pure; Renderer does the writing.
package view

import (
	"fmt"
	"math"

	"github.com/user/crawler-console/internal/entity"
	"github.com/user/crawler-console/internal/usecase"
	"github.com/user/crawler-console/pkg/utils"
)

// URLDisplayLimit is how many runes of a URL are shown before truncation.
const URLDisplayLimit = 50

const timeLayout = "2006-01-02 15:04:05"

type NoticeView struct {
	ID      string
	Class   string // bootstrap alert class
	Message string
}

type StatsView struct {
	TotalTasks   int64
	RunningTasks int64
	WaitingTasks int64
	Completed    int64
	Failed       int64
	TotalRecords int64
}

type TaskCard struct {
	ID          int64
	Name        string
	Description string
	URL         string
	ShortURL    string
	MaxPages    int
	CreatedAt   string
	StatusLabel string
	StatusClass string

	// Progress is only populated for running tasks.
	ShowProgress     bool
	Progress         int
	CurrentPage      int
	CurrentItemIndex int

	CanStart  bool
	CanStop   bool
	CanDelete bool
}

type DashboardView struct {
	Stats     StatsView
	Tasks     []TaskCard
	Notices   []NoticeView
	Loaded    bool
	UpdatedAt string
}

// Dashboard builds the dashboard page from a snapshot of cached state.
func Dashboard(snap usecase.DashboardSnapshot, notices []usecase.Notice) DashboardView {
	v := DashboardView{
		Stats: StatsView{
			TotalTasks:   snap.TaskStats.Total(),
			RunningTasks: snap.TaskStats.RunningCount,
			WaitingTasks: snap.TaskStats.Waiting(),
			Completed:    snap.TaskStats.Count(entity.StatusCompleted),
			Failed:       snap.TaskStats.Count(entity.StatusFailed),
			TotalRecords: snap.DataStats.TotalCount,
		},
		Tasks:   make([]TaskCard, 0, len(snap.Tasks)),
		Notices: Notices(notices),
		Loaded:  snap.Loaded,
	}
	if !snap.UpdatedAt.IsZero() {
		v.UpdatedAt = snap.UpdatedAt.Format(timeLayout)
	}
	for _, t := range snap.Tasks {
		v.Tasks = append(v.Tasks, Card(t))
	}
	return v
}

// Card builds the view of one task, gating its buttons on the status.
func Card(t entity.Task) TaskCard {
	actions := entity.PermittedActions(t.Status)
	c := TaskCard{
		ID:          t.ID,
		Name:        t.TaskName,
		Description: t.Description,
		URL:         t.URL,
		ShortURL:    utils.TruncateURL(t.URL, URLDisplayLimit),
		MaxPages:    t.MaxPages,
		CreatedAt:   t.CreatedTime.Display(),
		StatusLabel: t.Status.Label(),
		StatusClass: t.Status.ColorClass(),
		CanStart:    actions.CanStart,
		CanStop:     actions.CanStop,
		CanDelete:   actions.CanDelete,
	}
	if c.Description == "" {
		c.Description = "No description"
	}
	if t.Status == entity.StatusRunning {
		c.ShowProgress = true
		c.Progress = Progress(t.CurrentPage, t.MaxPages)
		c.CurrentPage = t.CurrentPage
		c.CurrentItemIndex = t.CurrentItemIndex
	}
	return c
}

// Progress is the whole-percent progress bar width, clamped to [0, 100].
func Progress(currentPage, maxPages int) int {
	return int(math.Round(entity.Progress(currentPage, maxPages)))
}

func Notices(notices []usecase.Notice) []NoticeView {
	out := make([]NoticeView, 0, len(notices))
	for _, n := range notices {
		out = append(out, NoticeView{
			ID:      n.ID,
			Class:   "alert-" + string(n.Level),
			Message: n.Message,
		})
	}
	return out
}

func pageBadge(pageNumber int) string {
	return fmt.Sprintf("Page %d", pageNumber)
}
