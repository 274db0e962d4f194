package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineNotifier_PushesToEmployee(t *testing.T) {
	pusher := &fakePusher{}
	n := &LineNotifier{client: pusher}

	err := n.Notify(context.Background(), notification.Message{
		ID:         "0190f3c2-1111-7000-8000-000000000001",
		Type:       notification.TypeAttendanceCheckIn,
		LineUserID: "U1234",
		Title:      "Checked in",
		Text:       "08:02 at Head Office",
	})
	require.NoError(t, err)

	require.Len(t, pusher.requests, 1)
	req := pusher.requests[0]
	assert.Equal(t, "U1234", req.To)
	require.Len(t, req.Messages, 1)
	text, ok := req.Messages[0].(messaging_api.TextMessage)
	require.True(t, ok)
	assert.Equal(t, "Checked in\n08:02 at Head Office", text.Text)
	assert.Equal(t, "0190f3c2-1111-7000-8000-000000000001", pusher.keys[0])
}

func TestLineNotifier_NoTitle(t *testing.T) {
	pusher := &fakePusher{}
	n := &LineNotifier{client: pusher}

	require.NoError(t, n.Notify(context.Background(), notification.Message{
		Type:       notification.TypeLeaveApproved,
		LineUserID: "U1",
		Text:       "Your leave was approved",
	}))
	text := pusher.requests[0].Messages[0].(messaging_api.TextMessage)
	assert.Equal(t, "Your leave was approved", text.Text)
}

func TestLineNotifier_NoRecipient(t *testing.T) {
	tests := []struct {
		name string
		msg  notification.Message
	}{
		{"hr facing", notification.Message{Type: notification.TypeLeaveSubmitted, LineUserID: "U1"}},
		{"no line user", notification.Message{Type: notification.TypeAttendanceCheckOut}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pusher := &fakePusher{}
			n := &LineNotifier{client: pusher}

			err := n.Notify(context.Background(), tt.msg)
			assert.ErrorIs(t, err, notification.ErrNoRecipient)
			assert.Empty(t, pusher.requests)
		})
	}
}

func TestLineNotifier_ClientError(t *testing.T) {
	apiErr := errors.New("429 too many requests")
	n := &LineNotifier{client: &fakePusher{err: apiErr}}

	err := n.Notify(context.Background(), notification.Message{
		Type:       notification.TypeEmployeeApproved,
		LineUserID: "U9",
		Text:       "Welcome",
	})
	assert.ErrorIs(t, err, apiErr)
	assert.Contains(t, err.Error(), "U9")
}

func TestLineNotifier_CancelledContext(t *testing.T) {
	pusher := &fakePusher{}
	n := &LineNotifier{client: pusher}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.Notify(ctx, notification.Message{Type: notification.TypeAttendanceCheckIn, LineUserID: "U1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, pusher.requests)
}
