package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/frahmantamala/office-calendar/internal/auth"
	"github.com/frahmantamala/office-calendar/internal/transport"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Clients never send application data; anything beyond a control frame
	// sized message is a protocol violation.
	maxInboundSize = 512

	sendBufferSize = 16
)

// Client is one websocket connection registered with the hub.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	employeeID int64

	closeOnce sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// readLoop discards inbound frames and watches for the peer going away.
func (c *Client) readLoop() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Handler upgrades authenticated HTTP requests to websocket connections and
// registers them with the hub. Authentication happens in the middleware
// chain before the upgrade.
type Handler struct {
	*transport.BaseHandler
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, checkOrigin func(r *http.Request) bool) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		hub:         hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.AccountFromContext(r.Context())
	if !ok || account == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.Logger.Warn("websocket upgrade failed", "error", err, "employee_id", account.ID)
		return
	}

	client := &Client{
		hub:        h.hub,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		employeeID: account.ID,
	}

	if !h.hub.Register(client) {
		h.Logger.Warn("hub stopped, closing new connection", "employee_id", account.ID)
		conn.Close()
		return
	}

	go client.writeLoop()
	go client.readLoop()
}
