package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/slack-go/slack"
)

type slackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier posts HR-facing messages to the HR channel.
type SlackNotifier struct {
	client  slackPoster
	channel string
}

func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{
		client:  slack.New(token),
		channel: channel,
	}
}

func (n *SlackNotifier) Name() string { return "slack" }

// Notify implements notification.Notifier.
func (n *SlackNotifier) Notify(ctx context.Context, msg notification.Message) error {
	if !msg.Type.HRFacing() {
		return notification.ErrNoRecipient
	}
	if n.channel == "" {
		return notification.ErrChannelDisabled
	}

	var b strings.Builder
	if msg.Title != "" {
		b.WriteString("*" + msg.Title + "*\n")
	}
	b.WriteString(msg.Text)

	_, _, err := n.client.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(b.String(), false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}
	return nil
}
