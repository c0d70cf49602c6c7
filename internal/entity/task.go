package entity

import (
	"encoding/json"
	"fmt"
)

// Task mirrors a crawl task as returned by the backend.
type Task struct {
	ID                int64      `json:"id"`
	TaskName          string     `json:"taskName"`
	URL               string     `json:"url"`
	Description       string     `json:"description,omitempty"`
	MaxPages          int        `json:"maxPages"`
	Status            TaskStatus `json:"status"`
	CurrentPage       int        `json:"currentPage"`      // meaningful only while RUNNING
	CurrentItemIndex  int        `json:"currentItemIndex"` // meaningful only while RUNNING
	TotalItemsCrawled int        `json:"totalItemsCrawled"`
	CreatedTime       LocalTime  `json:"createdTime"`
	UpdatedTime       LocalTime  `json:"updatedTime"`
	StartedTime       LocalTime  `json:"startedTime"`
	CompletedTime     LocalTime  `json:"completedTime"`
}

// Progress returns how far through its page budget the task is, as a
// percentage clamped to [0, 100].
func (t Task) Progress() float64 {
	return Progress(t.CurrentPage, t.MaxPages)
}

func Progress(currentPage, maxPages int) float64 {
	if maxPages <= 0 || currentPage <= 0 {
		return 0
	}
	if currentPage >= maxPages {
		return 100
	}
	return float64(currentPage) / float64(maxPages) * 100
}

// TaskStats is the per-status task count reported by the backend.
type TaskStats struct {
	ByStatus     map[TaskStatus]int64
	RunningCount int64
}

const runningCountKey = "runningCount"

// UnmarshalJSON decodes the backend's flat object, where every key other
// than runningCount is a status name.
func (s *TaskStats) UnmarshalJSON(data []byte) error {
	var raw map[string]json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.ByStatus = make(map[TaskStatus]int64, len(raw))
	s.RunningCount = 0
	for key, value := range raw {
		if value == "" {
			continue
		}
		n, err := value.Int64()
		if err != nil {
			return fmt.Errorf("task stats %q: %w", key, err)
		}
		if key == runningCountKey {
			s.RunningCount = n
			continue
		}
		s.ByStatus[TaskStatus(key)] = n
	}
	return nil
}

func (s TaskStats) MarshalJSON() ([]byte, error) {
	out := make(map[string]int64, len(s.ByStatus)+1)
	for status, n := range s.ByStatus {
		out[string(status)] = n
	}
	out[runningCountKey] = s.RunningCount
	return json.Marshal(out)
}

func (s TaskStats) Count(status TaskStatus) int64 {
	return s.ByStatus[status]
}

// Total sums the five known statuses.
func (s TaskStats) Total() int64 {
	var total int64
	for _, status := range KnownStatuses {
		total += s.ByStatus[status]
	}
	return total
}

// Waiting counts tasks that are not running but can be started.
func (s TaskStats) Waiting() int64 {
	return s.ByStatus[StatusPending] + s.ByStatus[StatusPaused]
}
