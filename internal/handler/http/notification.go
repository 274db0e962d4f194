package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	domainNotification "github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/line-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/line-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/line-attendance-go/internal/service/notification"
)

// NotificationHandler serves the HR live feed of attendance, leave and
// registration events.
type NotificationHandler interface {
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
	Recent(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	hub        *sse.Hub
	jwtService jwt.Service
	log        domainNotification.LogRepository
	keepalive  time.Duration
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(hub *sse.Hub, jwtService jwt.Service, log domainNotification.LogRepository) NotificationHandler {
	return &notificationHandlerImpl{
		hub:        hub,
		jwtService: jwtService,
		log:        log,
		keepalive:  30 * time.Second,
	}
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// optionalQueryParam returns nil for a missing or blank parameter
func optionalQueryParam(r *http.Request, key string) *string {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	if val == "" {
		return nil
	}
	return &val
}

// GetSSEToken generates a short-lived token for SSE connections
func (h *notificationHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.AdminID(r.Context())
	if adminID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(adminID)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream holds an SSE connection open and forwards every feed event. Browsers
// cannot set headers on EventSource, so the short-lived token comes in the query.
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	adminID, err := h.jwtService.ValidateSSEToken(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "Invalid or missing stream token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	// subscribe before the first write so nothing published after the
	// handshake is missed
	events, unsubscribe := h.hub.Subscribe(notification.AdminFeedTopic)
	defer unsubscribe()

	send := func(name string, payload any) bool {
		data, err := json.Marshal(payload)
		if err != nil {
			slog.Warn("Dropping unencodable feed event", "event", name, "error", err)
			return true
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send("connected", map[string]string{"status": "connected", "admin_id": adminID}) {
		return
	}

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		var alive bool
		select {
		case <-r.Context().Done():
			return
		case event, open := <-events:
			if !open {
				return
			}
			alive = send(event.Event, event.Data)
		case now := <-keepalive.C:
			alive = send("ping", map[string]int64{"timestamp": now.Unix()})
		}
		if !alive {
			return
		}
	}
}

// Recent returns the latest feed events so the panel can backfill on load
func (h *notificationHandlerImpl) Recent(w http.ResponseWriter, r *http.Request) {
	limit := getIntQueryParam(r, "limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	messages, err := h.log.ListRecent(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	events := make([]notification.FeedEvent, 0, len(messages))
	for _, msg := range messages {
		events = append(events, notification.ToFeedEvent(msg))
	}
	response.Success(w, events)
}
