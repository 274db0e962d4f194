package notification

import (
	"context"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/sse"
)

// AdminFeedTopic is the SSE topic the admin panel subscribes to.
const AdminFeedTopic = "admin"

// FeedEvent is the JSON body of an admin feed event.
type FeedEvent struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	EmployeeID string                 `json:"employee_id,omitempty"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	Data       map[string]interface{} `json:"data,omitempty"`
	CreatedAt  string                 `json:"created_at"`
}

// HubNotifier mirrors every message onto the admin live feed.
type HubNotifier struct {
	hub *sse.Hub
}

func NewHubNotifier(hub *sse.Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) Name() string { return "sse" }

// Notify implements notification.Notifier.
func (n *HubNotifier) Notify(_ context.Context, msg notification.Message) error {
	n.hub.Publish(AdminFeedTopic, sse.Event{
		Topic: AdminFeedTopic,
		Event: string(msg.Type),
		Data:  ToFeedEvent(msg),
	})
	return nil
}

// ToFeedEvent renders a message the way the admin panel consumes it.
func ToFeedEvent(msg notification.Message) FeedEvent {
	return FeedEvent{
		ID:         msg.ID,
		Type:       string(msg.Type),
		EmployeeID: msg.EmployeeID,
		Title:      msg.Title,
		Message:    msg.Text,
		Data:       msg.Data,
		CreatedAt:  msg.CreatedAt.Format(time.RFC3339),
	}
}
