package notification

import "errors"

// Notification domain errors
var (
	ErrQueueFull       = errors.New("notification queue is full")
	ErrServiceStopped  = errors.New("notification service is stopped")
	ErrNoRecipient     = errors.New("notification has no recipient for this channel")
	ErrChannelDisabled = errors.New("notification channel is not configured")
)
