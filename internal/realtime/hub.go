package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/frahmantamala/office-calendar/internal/core/events"
)

// Message is the frame pushed over the websocket. Name distinguishes the
// notification kind; clients re-fetch on receipt, the payload is advisory.
type Message struct {
	Name string      `json:"name"`
	Data interface{} `json:"data"`
}

// Wire names for the broadcast notifications.
const (
	MsgAttendanceChanged = "AttendanceChanged"
	MsgBookingChanged    = "BookingChanged"
	MsgRoomChanged       = "RoomChanged"
)

// Hub fans broadcast messages out to all connected clients. Clients that
// cannot keep up with their send buffer get dropped rather than blocking the
// broadcast loop.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	logger     *slog.Logger

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Register hands a client to the hub loop. It reports false when the hub has
// already stopped, in which case the caller still owns the connection.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub loop. A stopped hub has already
// closed its clients, so there is nothing left to do.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Run owns the client set. It returns when ctx is cancelled, closing every
// connected client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			h.closed = true
			h.mu.Unlock()
			for c := range h.clients {
				c.close()
				delete(h.clients, c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Info("realtime client connected", "employee_id", c.employeeID, "clients", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.close()
				h.logger.Info("realtime client disconnected", "employee_id", c.employeeID, "clients", len(h.clients))
			}
		case frame := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- frame:
				default:
					delete(h.clients, c)
					c.close()
					h.logger.Warn("realtime client dropped, send buffer full", "employee_id", c.employeeID)
				}
			}
		}
	}
}

// Broadcast serializes the message and queues it for every connected client.
func (h *Hub) Broadcast(msg Message) {
	frame, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal realtime message", "error", err, "name", msg.Name)
		return
	}

	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return
	}

	select {
	case h.broadcast <- frame:
	default:
		h.logger.Warn("realtime broadcast queue full, dropping message", "name", msg.Name)
	}
}

// SubscribeTo wires the hub onto the in-process event bus, translating
// domain events into named websocket frames.
func (h *Hub) SubscribeTo(bus *events.EventBus) {
	bus.Subscribe(events.TypeAttendanceChanged, func(ctx context.Context, ev events.Event) error {
		h.Broadcast(Message{Name: MsgAttendanceChanged, Data: ev.Payload()})
		return nil
	})
	bus.Subscribe(events.TypeBookingChanged, func(ctx context.Context, ev events.Event) error {
		h.Broadcast(Message{Name: MsgBookingChanged, Data: ev.Payload()})
		return nil
	})
	bus.Subscribe(events.TypeRoomChanged, func(ctx context.Context, ev events.Event) error {
		h.Broadcast(Message{Name: MsgRoomChanged, Data: ev.Payload()})
		return nil
	})
}
