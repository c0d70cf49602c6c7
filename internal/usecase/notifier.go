package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeDanger  NoticeLevel = "danger"
)

const maxNotices = 20

// Notice is a transient banner shown to the operator.
type Notice struct {
	ID        string
	Level     NoticeLevel
	Message   string
	CreatedAt time.Time
}

// Notifier keeps the banners raised by actions until they expire.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	notices []Notice
}

func NewNotifier(ttl time.Duration) *Notifier {
	return &Notifier{ttl: ttl, now: time.Now}
}

func (n *Notifier) Push(level NoticeLevel, message string) Notice {
	notice := Notice{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: n.now(),
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	if len(n.notices) > maxNotices {
		n.notices = n.notices[len(n.notices)-maxNotices:]
	}
	return notice
}

func (n *Notifier) Info(message string) Notice    { return n.Push(NoticeInfo, message) }
func (n *Notifier) Success(message string) Notice { return n.Push(NoticeSuccess, message) }
func (n *Notifier) Failure(message string) Notice { return n.Push(NoticeDanger, message) }

// Active returns the notices that have not expired, oldest first.
func (n *Notifier) Active() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	cutoff := n.now().Add(-n.ttl)
	kept := n.notices[:0]
	for _, notice := range n.notices {
		if notice.CreatedAt.After(cutoff) {
			kept = append(kept, notice)
		}
	}
	n.notices = kept

	out := make([]Notice, len(kept))
	copy(out, kept)
	return out
}

// Dismiss removes a notice before it expires. It reports whether it existed.
func (n *Notifier) Dismiss(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, notice := range n.notices {
		if notice.ID == id {
			n.notices = append(n.notices[:i], n.notices[i+1:]...)
			return true
		}
	}
	return false
}
