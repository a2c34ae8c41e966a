package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestNotifyExpires(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	n := New(3 * time.Second).WithClock(clock.now)

	n.Success("brand %s", "created")

	msg, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "brand created", msg.Text)
	assert.Equal(t, Success, msg.Severity)

	clock.advance(2999 * time.Millisecond)
	_, ok = n.Current()
	assert.True(t, ok)

	clock.advance(time.Millisecond)
	_, ok = n.Current()
	assert.False(t, ok)
}

func TestNotifyReplaces(t *testing.T) {
	n := New(time.Minute)

	n.Info("first")
	n.Error("second")

	msg, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "second", msg.Text)
	assert.Equal(t, "error", msg.Severity.String())
}

func TestDismissSkipsNewerMessage(t *testing.T) {
	n := New(time.Minute)

	first := n.Info("first")
	n.Info("second")

	n.Dismiss(first)
	msg, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "second", msg.Text)

	n.Dismiss(n.Seq())
	_, ok = n.Current()
	assert.False(t, ok)
}

func TestDefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, New(0).TTL())
	assert.Equal(t, 5*time.Second, New(5*time.Second).TTL())
}
