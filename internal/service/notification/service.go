package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	WorkerCount int           // default: 2
	QueueSize   int           // default: 256
	SendTimeout time.Duration // default: 10 seconds
}

type service struct {
	notifiers []notification.Notifier
	config    Config

	mu     sync.RWMutex
	closed bool
	queue  chan notification.Message
	wg     sync.WaitGroup
}

// NewNotificationService starts the background workers that fan each queued
// message out to every notifier.
func NewNotificationService(cfg Config, notifiers ...notification.Notifier) notification.Service {
	// Set defaults
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 256
	}
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = 10 * time.Second
	}

	s := &service{
		notifiers: notifiers,
		config:    cfg,
		queue:     make(chan notification.Message, cfg.QueueSize),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	names := make([]string, 0, len(notifiers))
	for _, n := range notifiers {
		names = append(names, n.Name())
	}
	slog.Info("Notification service started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize, "notifiers", names)

	return s
}

// Enqueue implements notification.Service.
func (s *service) Enqueue(msg notification.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		slog.Warn("Notification dropped, service stopped", "type", msg.Type, "employee_id", msg.EmployeeID)
		return notification.ErrServiceStopped
	}

	select {
	case s.queue <- msg:
		return nil
	default:
		slog.Warn("Notification dropped, queue full", "type", msg.Type, "employee_id", msg.EmployeeID)
		return notification.ErrQueueFull
	}
}

// Close implements notification.Service.
func (s *service) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("Notification service stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *service) worker(id int) {
	defer s.wg.Done()
	for msg := range s.queue {
		s.deliver(id, msg)
	}
}

func (s *service) deliver(workerID int, msg notification.Message) {
	for _, n := range s.notifiers {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.SendTimeout)
		err := n.Notify(ctx, msg)
		cancel()

		switch {
		case err == nil:
			slog.Debug("Notification delivered", "worker", workerID, "notifier", n.Name(), "type", msg.Type, "id", msg.ID)
		case errors.Is(err, notification.ErrNoRecipient), errors.Is(err, notification.ErrChannelDisabled):
			// not addressed to this channel
		default:
			slog.Error("Notification delivery failed",
				"worker", workerID,
				"notifier", n.Name(),
				"type", msg.Type,
				"id", msg.ID,
				"employee_id", msg.EmployeeID,
				"error", err,
			)
		}
	}
}
