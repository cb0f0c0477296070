// Package notify delivers one-way user notices (payment started, item delivered,
// validation problems) to whoever is presenting them.
package notify

import (
	"log/slog"
	"sync"

	"github.com/mcoot/rustdonate/internal/model"
)

// Notifier receives notices. Implementations must not block the caller.
type Notifier interface {
	Notify(notice model.Notice)
}

// Func adapts a plain function to a Notifier
type Func func(notice model.Notice)

func (f Func) Notify(notice model.Notice) {
	f(notice)
}

// Multi fans a notice out to several notifiers in order
type Multi []Notifier

func (m Multi) Notify(notice model.Notice) {
	for _, n := range m {
		if n != nil {
			n.Notify(notice)
		}
	}
}

// Nop drops every notice
type Nop struct{}

func (Nop) Notify(model.Notice) {}

// LogNotifier writes notices to a logger
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With(slog.String("component", "notices"))}
}

func (l *LogNotifier) Notify(notice model.Notice) {
	attrs := []any{
		slog.String("title", notice.Title),
		slog.String("description", notice.Description),
		slog.String("variant", string(notice.Variant)),
	}
	if notice.OrderID != 0 {
		attrs = append(attrs, slog.Int64("order_id", int64(notice.OrderID)))
	}
	if notice.Variant == model.NoticeDestructive {
		l.logger.Warn("notice", attrs...)
		return
	}
	l.logger.Info("notice", attrs...)
}

// Capture keeps every notice it receives. Safe for concurrent use.
type Capture struct {
	mu      sync.Mutex
	notices []model.Notice
}

func (c *Capture) Notify(notice model.Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, notice)
}

// Notices returns a copy of the captured notices in arrival order
func (c *Capture) Notices() []model.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]model.Notice, len(c.notices))
	copy(result, c.notices)
	return result
}

// Count returns how many captured notices have the given title
func (c *Capture) Count(title string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, notice := range c.notices {
		if notice.Title == title {
			n++
		}
	}
	return n
}
