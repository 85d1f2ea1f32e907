package realtime

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients authenticate with a bearer token, not cookies, so
	// cross-origin upgrades carry no ambient credentials.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientFrame is what a connected client sends: a room join or leave.
type clientFrame struct {
	Action string `json:"action"` // "join" or "leave"
	Room   string `json:"room"`
}

// Gateway upgrades HTTP connections to websockets and wires them into the hub.
type Gateway struct {
	hub    *Hub
	logger *zap.Logger
}

// NewGateway creates a websocket gateway over the given hub.
func NewGateway(hub *Hub, logger *zap.Logger) *Gateway {
	return &Gateway{hub: hub, logger: logger}
}

// client is one websocket connection. Deliver enqueues onto a buffered
// channel drained by writePump, so a slow reader never blocks the hub.
type client struct {
	id   string
	conn *websocket.Conn
	send chan Event
}

// Deliver implements Sink. Events for a full buffer are dropped; the live
// channel is best-effort.
func (c *client) Deliver(evt Event) {
	select {
	case c.send <- evt:
	default:
	}
}

// Handle is the gin handler for the websocket endpoint.
func (g *Gateway) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan Event, sendBufferSize),
	}
	g.hub.Register(cl.id, cl)

	go g.writePump(cl)
	g.readPump(cl)
}

// readPump consumes join/leave frames until the connection closes.
func (g *Gateway) readPump(cl *client) {
	defer func() {
		g.hub.Unregister(cl.id)
		close(cl.send)
		_ = cl.conn.Close()
	}()

	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame clientFrame
		if err := cl.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
		switch frame.Action {
		case "join":
			g.hub.Join(cl.id, frame.Room)
		case "leave":
			g.hub.Leave(cl.id, frame.Room)
		}
	}
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with pings.
func (g *Gateway) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
