package notification

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// linePusher is the slice of the LINE Messaging API client this notifier uses.
type linePusher interface {
	PushMessage(req *messaging_api.PushMessageRequest, xLineRetryKey string) (*messaging_api.PushMessageResponse, error)
}

// LineNotifier pushes employee-facing messages to the employee's LINE chat.
type LineNotifier struct {
	client linePusher
}

func NewLineNotifier(channelAccessToken string) (*LineNotifier, error) {
	client, err := messaging_api.NewMessagingApiAPI(channelAccessToken)
	if err != nil {
		return nil, fmt.Errorf("create LINE messaging client: %w", err)
	}
	return &LineNotifier{client: client}, nil
}

func (n *LineNotifier) Name() string { return "line" }

// Notify implements notification.Notifier.
func (n *LineNotifier) Notify(ctx context.Context, msg notification.Message) error {
	if msg.Type.HRFacing() || msg.LineUserID == "" {
		return notification.ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text := msg.Text
	if msg.Title != "" {
		text = msg.Title + "\n" + msg.Text
	}

	_, err := n.client.PushMessage(&messaging_api.PushMessageRequest{
		To: msg.LineUserID,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	}, msg.ID) // message ids are UUIDs, which LINE accepts as retry keys
	if err != nil {
		return fmt.Errorf("push LINE message to %s: %w", msg.LineUserID, err)
	}
	return nil
}
