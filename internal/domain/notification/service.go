package notification

import (
	"context"
)

// Service accepts messages for asynchronous delivery.
type Service interface {
	// Enqueue never blocks; a full queue drops the message and returns ErrQueueFull
	Enqueue(msg Message) error

	// Close stops accepting messages and drains the queue until ctx is done
	Close(ctx context.Context) error
}

// Notifier delivers one message over one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

// LogRepository keeps the delivered admin feed so the panel can show what
// happened before it connected.
type LogRepository interface {
	Append(ctx context.Context, msg Message) error
	ListRecent(ctx context.Context, limit int) ([]Message, error)
}
