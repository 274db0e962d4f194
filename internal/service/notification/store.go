package notification

import (
	"context"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
)

// StoreNotifier appends every message to the notification log.
type StoreNotifier struct {
	repo notification.LogRepository
}

func NewStoreNotifier(repo notification.LogRepository) *StoreNotifier {
	return &StoreNotifier{repo: repo}
}

func (n *StoreNotifier) Name() string { return "store" }

// Notify implements notification.Notifier.
func (n *StoreNotifier) Notify(ctx context.Context, msg notification.Message) error {
	return n.repo.Append(ctx, msg)
}
