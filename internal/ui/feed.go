package ui

import (
	"context"
	"sync"
	"time"

	"github.com/straye-as/client-admin/internal/auth"
	"go.uber.org/zap"
)

type confirmKey struct{}

// WithConfirmation stores the operator's answer to any confirmation asked
// while serving ctx
func WithConfirmation(ctx context.Context, answer bool) context.Context {
	return context.WithValue(ctx, confirmKey{}, answer)
}

// ContextConfirmer answers from the value set by WithConfirmation, and no
// when there is none
type ContextConfirmer struct{}

// Confirm implements Confirmer
func (ContextConfirmer) Confirm(ctx context.Context, _, _ string) bool {
	answer, _ := ctx.Value(confirmKey{}).(bool)
	return answer
}

// Notification is one entry of a Feed
type Notification struct {
	Seq     uint64    `json:"seq"`
	Message string    `json:"message"`
	Action  string    `json:"action,omitempty"`
	At      time.Time `json:"at"`
}

// Feed keeps the most recent notifications so a polling front-end can show
// them. Offers are recorded with their action but never accepted.
type Feed struct {
	mu      sync.Mutex
	size    int
	seq     uint64
	entries []Notification
	logger  *zap.Logger
}

// NewFeed keeps up to size notifications
func NewFeed(size int, logger *zap.Logger) *Feed {
	if size <= 0 {
		size = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{size: size, logger: logger}
}

func (f *Feed) add(message, action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.entries = append(f.entries, Notification{Seq: f.seq, Message: message, Action: action, At: time.Now().UTC()})
	if len(f.entries) > f.size {
		f.entries = append([]Notification(nil), f.entries[len(f.entries)-f.size:]...)
	}
}

// Notify implements Notifier
func (f *Feed) Notify(message string) {
	f.logger.Debug("notification", zap.String("message", message))
	f.add(message, "")
}

// Offer implements Notifier
func (f *Feed) Offer(_ context.Context, message, action string, _ time.Duration) bool {
	f.logger.Debug("offer", zap.String("message", message), zap.String("action", action))
	f.add(message, action)
	return false
}

// Mark returns the sequence number of the newest notification
func (f *Feed) Mark() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}

// Since returns the notifications newer than mark, oldest first
func (f *Feed) Since(mark uint64) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []Notification{}
	for _, n := range f.entries {
		if n.Seq > mark {
			out = append(out, n)
		}
	}
	return out
}

// RouteTracker remembers the last screen navigated to
type RouteTracker struct {
	mu    sync.Mutex
	route auth.Route
}

// Navigate implements Navigator
func (t *RouteTracker) Navigate(route auth.Route) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.route = route
}

// Current returns the last route, "" before any navigation
func (t *RouteTracker) Current() auth.Route {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.route
}
