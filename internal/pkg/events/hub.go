package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/domain/notification"
)

// AllStaff subscribes to every event regardless of the staff member involved.
const AllStaff = "*"

// Hub fans notification events out to in-process subscribers.
// Publishing never blocks: a full subscriber buffer drops the event.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan notification.Event]struct{}
	bufferSize  int
	logger      *slog.Logger
}

func NewHub(bufferSize int, logger *slog.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[string]map[chan notification.Event]struct{}),
		bufferSize:  bufferSize,
		logger:      logger,
	}
}

// Subscribe registers a subscriber for staffID (or AllStaff) and returns the
// event channel and a cleanup function.
func (h *Hub) Subscribe(staffID string) (<-chan notification.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan notification.Event, h.bufferSize)
	if h.subscribers[staffID] == nil {
		h.subscribers[staffID] = make(map[chan notification.Event]struct{})
	}
	h.subscribers[staffID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[staffID], ch)
			close(ch)
			if len(h.subscribers[staffID]) == 0 {
				delete(h.subscribers, staffID)
			}
		})
	}

	return ch, cleanup
}

// Publish implements notification.Publisher.
func (h *Hub) Publish(_ context.Context, event notification.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.deliver(h.subscribers[event.StaffID], event)
	if event.StaffID != AllStaff {
		h.deliver(h.subscribers[AllStaff], event)
	}
}

func (h *Hub) deliver(subs map[chan notification.Event]struct{}, event notification.Event) {
	for ch := range subs {
		select {
		case ch <- event:
		default:
			h.logger.Warn("notification dropped, subscriber buffer full",
				"event_id", event.ID, "type", event.Type, "staff_id", event.StaffID)
		}
	}
}

// SubscriberCount returns the number of active subscribers for staffID.
func (h *Hub) SubscriberCount(staffID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[staffID])
}

// Forward drains every event into sink until ctx is done. It is how the
// external dispatcher attaches to the hub.
func (h *Hub) Forward(ctx context.Context, sink func(notification.Event)) {
	ch, cleanup := h.Subscribe(AllStaff)
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			sink(ev)
		}
	}
}
