// Package notify carries user-facing feedback (toasts) out of the register
// engine.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Kind classifies a notice for display.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notice is a single piece of user feedback.
type Notice struct {
	Kind        Kind
	Title       string
	Description string
	At          time.Time
}

// Notifier receives notices. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(n Notice)
}

// Info, Success and Error build notices stamped with the current time.
func Info(title, description string) Notice {
	return Notice{Kind: KindInfo, Title: title, Description: description, At: time.Now()}
}

func Success(title, description string) Notice {
	return Notice{Kind: KindSuccess, Title: title, Description: description, At: time.Now()}
}

func Error(title, description string) Notice {
	return Notice{Kind: KindError, Title: title, Description: description, At: time.Now()}
}

// LogNotifier writes notices to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a LogNotifier. A nil logger uses slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(n Notice) {
	level := slog.LevelInfo
	if n.Kind == KindError {
		level = slog.LevelWarn
	}
	l.logger.Log(context.Background(), level, "Notice",
		"kind", n.Kind,
		"title", n.Title,
		"description", n.Description,
	)
}

// Queue buffers notices until a client drains them. When full, the oldest
// notice is dropped.
type Queue struct {
	mu    sync.Mutex
	max   int
	items []Notice
}

// NewQueue returns a Queue holding at most max notices (minimum 1).
func NewQueue(max int) *Queue {
	if max < 1 {
		max = 1
	}
	return &Queue{max: max}
}

func (q *Queue) Notify(n Notice) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == q.max {
		q.items = q.items[1:]
	}
	q.items = append(q.items, n)
}

// Drain returns the buffered notices in arrival order and empties the queue.
func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of buffered notices.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Multi fans a notice out to several notifiers in order.
type Multi []Notifier

func (m Multi) Notify(n Notice) {
	for _, nt := range m {
		nt.Notify(n)
	}
}
