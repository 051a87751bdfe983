package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/notification"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/events"
)

// Subscriber is the part of the event hub the stream handler needs.
type Subscriber interface {
	Subscribe(staffID string) (<-chan notification.Event, func())
}

type NotificationHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	hub       Subscriber
	keepalive time.Duration
}

func NewNotificationHandler(hub Subscriber) NotificationHandler {
	return &notificationHandlerImpl{hub: hub, keepalive: 30 * time.Second}
}

type streamEvent struct {
	ID         string                 `json:"id"`
	StaffID    string                 `json:"staff_id"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	Data       map[string]interface{} `json:"data,omitempty"`
	OccurredAt string                 `json:"occurred_at"`
}

// Stream pushes payment events over SSE. Staff receive their own events,
// admins receive every event.
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	c := caller(r)
	topic := c.StaffID
	if c.IsAdmin() {
		topic = events.AllStaff
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch, cleanup := h.hub.Subscribe(topic)
	defer cleanup()

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(streamEvent{
				ID:         event.ID,
				StaffID:    event.StaffID,
				Title:      event.Title,
				Message:    event.Message,
				Data:       event.Data,
				OccurredAt: event.OccurredAt.Format(time.RFC3339),
			})
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
