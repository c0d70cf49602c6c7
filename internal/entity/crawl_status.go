package entity

// TaskStatus is the lifecycle state the backend reports for a crawl task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "PENDING"
	StatusRunning   TaskStatus = "RUNNING"
	StatusPaused    TaskStatus = "PAUSED"
	StatusCompleted TaskStatus = "COMPLETED"
	StatusFailed    TaskStatus = "FAILED"
)

// KnownStatuses lists every status in display order.
var KnownStatuses = []TaskStatus{
	StatusPending,
	StatusRunning,
	StatusPaused,
	StatusCompleted,
	StatusFailed,
}

type Action string

const (
	ActionStart  Action = "start"
	ActionStop   Action = "stop"
	ActionDelete Action = "delete"
)

// Actions is the set of lifecycle commands a task currently accepts.
type Actions struct {
	CanStart  bool
	CanStop   bool
	CanDelete bool
}

func (a Actions) Allows(action Action) bool {
	switch action {
	case ActionStart:
		return a.CanStart
	case ActionStop:
		return a.CanStop
	case ActionDelete:
		return a.CanDelete
	default:
		return false
	}
}

func (a Actions) Any() bool {
	return a.CanStart || a.CanStop || a.CanDelete
}

func (s TaskStatus) Known() bool {
	switch s {
	case StatusPending, StatusRunning, StatusPaused, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// PermittedActions maps a status to the commands the console may offer.
// Unknown statuses permit nothing.
func PermittedActions(s TaskStatus) Actions {
	if !s.Known() {
		return Actions{}
	}
	return Actions{
		CanStart:  s == StatusPending || s == StatusPaused || s == StatusFailed,
		CanStop:   s == StatusRunning,
		CanDelete: s != StatusRunning,
	}
}

func (s TaskStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusRunning:
		return "Running"
	case StatusPaused:
		return "Paused"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	case "":
		return "Unknown"
	default:
		return string(s)
	}
}

// ColorClass is the badge class used when rendering the status.
func (s TaskStatus) ColorClass() string {
	switch s {
	case StatusRunning:
		return "bg-primary"
	case StatusPaused:
		return "bg-warning"
	case StatusCompleted:
		return "bg-success"
	case StatusFailed:
		return "bg-danger"
	default:
		return "bg-secondary"
	}
}
