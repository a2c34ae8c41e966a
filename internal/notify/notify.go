// Package notify holds the single transient message shown to the user
package notify

import (
	"fmt"
	"sync"
	"time"
)

// Severity of a notification
type Severity int

const (
	Info Severity = iota
	Success
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// DefaultTTL is how long a message stays visible unless a screen overrides it
const DefaultTTL = 3 * time.Second

// Message is one notification
type Message struct {
	Text     string
	Severity Severity
	Expires  time.Time
}

// Notifier keeps at most one message. Raising a new message replaces the
// current one; there is no queue.
type Notifier struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	cur *Message
	seq uint64
}

// New creates a notifier whose messages live for ttl
func New(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{ttl: ttl, now: time.Now}
}

// WithClock replaces the time source, for tests
func (n *Notifier) WithClock(now func() time.Time) *Notifier {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.now = now
	return n
}

// TTL returns the lifetime of a message
func (n *Notifier) TTL() time.Duration {
	return n.ttl
}

// Notify replaces the current message and returns its sequence number.
// The number lets a scheduled dismissal skip messages raised after it.
func (n *Notifier) Notify(sev Severity, format string, args ...interface{}) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.seq++
	n.cur = &Message{
		Text:     fmt.Sprintf(format, args...),
		Severity: sev,
		Expires:  n.now().Add(n.ttl),
	}
	return n.seq
}

// Info raises an informational message
func (n *Notifier) Info(format string, args ...interface{}) uint64 {
	return n.Notify(Info, format, args...)
}

// Success raises a success message
func (n *Notifier) Success(format string, args ...interface{}) uint64 {
	return n.Notify(Success, format, args...)
}

// Error raises an error message
func (n *Notifier) Error(format string, args ...interface{}) uint64 {
	return n.Notify(Error, format, args...)
}

// Current returns the message if one is set and not yet expired
func (n *Notifier) Current() (Message, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cur == nil || !n.now().Before(n.cur.Expires) {
		return Message{}, false
	}
	return *n.cur, true
}

// Seq returns the sequence number of the latest message
func (n *Notifier) Seq() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.seq
}

// Dismiss clears the message if it is still the one numbered seq
func (n *Notifier) Dismiss(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if seq == n.seq {
		n.cur = nil
	}
}

// Clear drops the current message unconditionally
func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cur = nil
}
