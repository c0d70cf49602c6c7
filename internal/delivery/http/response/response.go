package response

import (
	"time"

	"github.com/user/crawler-console/internal/entity"
	"github.com/user/crawler-console/internal/usecase"
)

type HealthResponse struct {
	Status  string `json:"status"`  // "ok" or "degraded"
	Backend string `json:"backend"` // "healthy" or "unhealthy"
	Error   string `json:"error,omitempty"`
}

type QueryResponse struct {
	Mode       string `json:"mode"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	PageNumber *int   `json:"page_number,omitempty"`
	Keyword    string `json:"keyword,omitempty"`
	TotalPages int    `json:"total_pages"`
}

type NoticeResponse struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ConsoleStateResponse is the JSON view of everything the console holds.
type ConsoleStateResponse struct {
	Loaded    bool             `json:"loaded"`
	UpdatedAt *time.Time       `json:"updated_at,omitempty"`
	TaskStats entity.TaskStats `json:"task_stats"`
	DataStats entity.DataStats `json:"data_stats"`
	Tasks     []entity.Task    `json:"tasks"`
	Query     QueryResponse    `json:"query"`
	Notices   []NoticeResponse `json:"notices"`
}

func NewConsoleState(snap usecase.DashboardSnapshot, state usecase.BrowserState, notices []usecase.Notice) ConsoleStateResponse {
	resp := ConsoleStateResponse{
		Loaded:    snap.Loaded,
		TaskStats: snap.TaskStats,
		DataStats: snap.DataStats,
		Tasks:     snap.Tasks,
		Query: QueryResponse{
			Mode:       string(state.Mode),
			Page:       state.Query.Page,
			PageSize:   state.Query.PageSize,
			PageNumber: state.Query.PageNumber,
			Keyword:    state.Keyword,
		},
		Notices: make([]NoticeResponse, 0, len(notices)),
	}
	if resp.Tasks == nil {
		resp.Tasks = []entity.Task{}
	}
	if !snap.UpdatedAt.IsZero() {
		at := snap.UpdatedAt
		resp.UpdatedAt = &at
	}
	if state.Result != nil {
		resp.Query.TotalPages = state.Result.TotalPages
	}
	for _, n := range notices {
		resp.Notices = append(resp.Notices, NoticeResponse{
			ID:        n.ID,
			Level:     string(n.Level),
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}
	return resp
}
