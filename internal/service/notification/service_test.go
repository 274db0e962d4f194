package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_FansOutToEveryNotifier(t *testing.T) {
	first := &collectingNotifier{name: "first"}
	failing := &collectingNotifier{name: "failing", err: errors.New("boom")}
	last := &collectingNotifier{name: "last"}
	svc := NewNotificationService(Config{WorkerCount: 1}, first, failing, last)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Enqueue(notification.Message{Type: notification.TypeAttendanceCheckIn}))
	}
	require.NoError(t, svc.Close(context.Background()))

	// a failing notifier does not stop the ones after it
	assert.Len(t, first.received(), 5)
	assert.Len(t, failing.received(), 5)
	assert.Len(t, last.received(), 5)
}

func TestService_EnqueueFillsIDAndTimestamp(t *testing.T) {
	c := &collectingNotifier{name: "c"}
	svc := NewNotificationService(Config{}, c)

	require.NoError(t, svc.Enqueue(notification.Message{Type: notification.TypeLeaveApproved}))
	require.NoError(t, svc.Enqueue(notification.Message{ID: "fixed", Type: notification.TypeLeaveApproved}))
	require.NoError(t, svc.Close(context.Background()))

	got := c.received()
	require.Len(t, got, 2)
	ids := map[string]bool{}
	for _, m := range got {
		assert.NotEmpty(t, m.ID)
		assert.False(t, m.CreatedAt.IsZero())
		ids[m.ID] = true
	}
	assert.True(t, ids["fixed"])
}

func TestService_QueueFull(t *testing.T) {
	block := make(chan struct{})
	c := &collectingNotifier{name: "slow", block: block}
	svc := NewNotificationService(Config{WorkerCount: 1, QueueSize: 1}, c)

	// the worker takes the first message and blocks; the second fills the queue
	require.NoError(t, svc.Enqueue(notification.Message{Type: notification.TypeAttendanceCheckIn}))
	assert.Eventually(t, func() bool {
		return svc.Enqueue(notification.Message{Type: notification.TypeAttendanceCheckIn}) == nil
	}, time.Second, 5*time.Millisecond)

	err := svc.Enqueue(notification.Message{Type: notification.TypeAttendanceCheckIn})
	assert.ErrorIs(t, err, notification.ErrQueueFull)

	close(block)
	require.NoError(t, svc.Close(context.Background()))
	assert.Len(t, c.received(), 2)
}

func TestService_EnqueueAfterClose(t *testing.T) {
	svc := NewNotificationService(Config{}, &collectingNotifier{name: "c"})
	require.NoError(t, svc.Close(context.Background()))

	err := svc.Enqueue(notification.Message{Type: notification.TypeAttendanceCheckIn})
	assert.ErrorIs(t, err, notification.ErrServiceStopped)

	// closing twice is harmless
	assert.NoError(t, svc.Close(context.Background()))
}

func TestService_CloseHonoursContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	svc := NewNotificationService(Config{WorkerCount: 1}, &collectingNotifier{name: "stuck", block: block})
	require.NoError(t, svc.Enqueue(notification.Message{Type: notification.TypeAttendanceCheckIn}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Close(ctx), context.DeadlineExceeded)
}

func TestHubNotifier_PublishesFeedEvent(t *testing.T) {
	hub := sse.NewHub()
	events, cleanup := hub.Subscribe(AdminFeedTopic)
	defer cleanup()

	created := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	n := NewHubNotifier(hub)
	require.NoError(t, n.Notify(context.Background(), notification.Message{
		ID:         "m1",
		Type:       notification.TypeAttendanceCheckIn,
		EmployeeID: "e1",
		Title:      "Check-in",
		Text:       "Somchai checked in",
		CreatedAt:  created,
	}))

	select {
	case ev := <-events:
		assert.Equal(t, "attendance_check_in", ev.Event)
		feed, ok := ev.Data.(FeedEvent)
		require.True(t, ok)
		assert.Equal(t, "m1", feed.ID)
		assert.Equal(t, "e1", feed.EmployeeID)
		assert.Equal(t, "Somchai checked in", feed.Message)
		assert.Equal(t, "2026-03-02T08:00:00Z", feed.CreatedAt)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestStoreNotifier_AppendsToLog(t *testing.T) {
	log := &memoryLog{}
	n := NewStoreNotifier(log)

	require.NoError(t, n.Notify(context.Background(), notification.Message{ID: "m1", Type: notification.TypeLeaveSubmitted}))
	got, err := log.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "store", n.Name())
}
