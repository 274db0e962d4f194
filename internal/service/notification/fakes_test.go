package notification

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/slack-go/slack"
)

type fakePusher struct {
	mu       sync.Mutex
	requests []*messaging_api.PushMessageRequest
	keys     []string
	err      error
}

func (f *fakePusher) PushMessage(req *messaging_api.PushMessageRequest, retryKey string) (*messaging_api.PushMessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	f.keys = append(f.keys, retryKey)
	return &messaging_api.PushMessageResponse{}, nil
}

type fakePoster struct {
	channels []string
	calls    int
	err      error
}

func (f *fakePoster) PostMessageContext(_ context.Context, channelID string, _ ...slack.MsgOption) (string, string, error) {
	f.calls++
	if f.err != nil {
		return "", "", f.err
	}
	f.channels = append(f.channels, channelID)
	return channelID, "1700000000.000100", nil
}

// collectingNotifier records every message; block, when set, holds Notify
// until it is closed.
type collectingNotifier struct {
	name  string
	block chan struct{}
	err   error

	mu       sync.Mutex
	messages []notification.Message
}

func (c *collectingNotifier) Name() string { return c.name }

func (c *collectingNotifier) Notify(_ context.Context, msg notification.Message) error {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return c.err
}

func (c *collectingNotifier) received() []notification.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notification.Message(nil), c.messages...)
}

type memoryLog struct {
	mu       sync.Mutex
	messages []notification.Message
}

func (m *memoryLog) Append(_ context.Context, msg notification.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *memoryLog) ListRecent(_ context.Context, limit int) ([]notification.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.messages) {
		limit = len(m.messages)
	}
	return append([]notification.Message(nil), m.messages[:limit]...), nil
}
