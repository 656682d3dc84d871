package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedEvent struct {
	Kind      string
	SessionID string
	Type      string
	Payload   interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
	closed []string
}

func (n *recordingNotifier) Publish(kind, sessionID, eventType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, publishedEvent{kind, sessionID, eventType, payload})
}

func (n *recordingNotifier) CloseRoom(roomID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = append(n.closed, roomID)
}

func (n *recordingNotifier) last() publishedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[len(n.events)-1]
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingEvictor struct {
	calls   atomic.Int32
	maxIdle atomic.Int64
}

func (e *countingEvictor) EvictIdle(_ context.Context, maxIdle time.Duration) int {
	e.calls.Add(1)
	e.maxIdle.Store(int64(maxIdle))
	return 1
}

func TestRunJanitor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first, second := &countingEvictor{}, &countingEvictor{}

	done := make(chan error, 1)
	go func() {
		done <- RunJanitor(ctx, 5*time.Millisecond, time.Hour, discardLogger(), first, second)
	}()

	require.Eventually(t, func() bool {
		return first.calls.Load() >= 2 && second.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(time.Hour), first.maxIdle.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}
