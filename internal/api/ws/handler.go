package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jmluang/xTerm/internal/events"
	"github.com/jmluang/xTerm/internal/infrastructure/logging"
	"github.com/jmluang/xTerm/internal/infrastructure/monitoring"
	"github.com/jmluang/xTerm/internal/providers/terminal"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The only client is the desktop frontend on localhost.
		return true
	},
}

// Handler bridges terminal sessions to WebSocket clients: commands come
// in as JSON frames, session events stream out to every connected
// client. The frontend filters events by sessionId.
type Handler struct {
	manager *terminal.Manager
	hub     *events.Hub
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewHandler creates the stream handler.
func NewHandler(manager *terminal.Manager, hub *events.Hub, logger *logging.Logger) *Handler {
	return &Handler{manager: manager, hub: hub, logger: logger}
}

// WithMetrics attaches a metrics collector.
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// wsConn serializes writes: the event pump and command replies share
// one connection.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(data)
}

// clientMessage is the union of all frames a client may send.
type clientMessage struct {
	Type      string            `json:"type"`
	Command   string            `json:"command"`
	Args      []string          `json:"args"`
	Cols      uint16            `json:"cols"`
	Rows      uint16            `json:"rows"`
	Cwd       string            `json:"cwd"`
	Env       map[string]string `json:"env"`
	SessionID string            `json:"sessionId"`
	Data      string            `json:"data"`
}

type dataFrame struct {
	Type string `json:"type"`
	terminal.DataEvent
}

type exitFrame struct {
	Type string `json:"type"`
	terminal.ExitEvent
}

// HandleConnection upgrades the request and serves the stream until the
// client disconnects.
func (h *Handler) HandleConnection(c *gin.Context) {
	raw, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	conn := &wsConn{conn: raw}
	defer raw.Close()

	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
		defer h.metrics.WSConnections.Dec()
	}

	conn.send(map[string]interface{}{
		"type":    "system",
		"message": "connected",
	})

	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)
	go h.pumpEvents(conn, sub)

	for {
		var msg clientMessage
		if err := raw.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("websocket read ended", zap.Error(err))
			}
			return
		}
		h.handleMessage(conn, msg)
	}
}

// pumpEvents drains the subscriber queue onto the connection. Delivery
// order is the hub's publish order, so per-session ordering holds.
func (h *Handler) pumpEvents(conn *wsConn, sub *events.Subscriber) {
	for {
		ev, ok := sub.Next()
		if !ok {
			return
		}

		var frame interface{}
		switch payload := ev.Payload.(type) {
		case terminal.DataEvent:
			frame = dataFrame{Type: ev.Type, DataEvent: payload}
		case terminal.ExitEvent:
			frame = exitFrame{Type: ev.Type, ExitEvent: payload}
		default:
			continue
		}
		if h.metrics != nil {
			h.metrics.WSEvents.WithLabelValues(ev.Type).Inc()
		}
		if err := conn.send(frame); err != nil {
			return
		}
	}
}

func (h *Handler) handleMessage(conn *wsConn, msg clientMessage) {
	switch msg.Type {
	case "spawn":
		id, err := h.manager.Spawn(terminal.SpawnRequest{
			Command: msg.Command,
			Args:    msg.Args,
			Cols:    msg.Cols,
			Rows:    msg.Rows,
			Cwd:     msg.Cwd,
			Env:     msg.Env,
		})
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		conn.send(map[string]interface{}{
			"type":      "spawned",
			"sessionId": id.String(),
		})

	case "write":
		h.withSession(conn, msg.SessionID, func(id terminal.SessionID) error {
			return h.manager.Write(id, []byte(msg.Data))
		})

	case "resize":
		h.withSession(conn, msg.SessionID, func(id terminal.SessionID) error {
			return h.manager.Resize(id, msg.Cols, msg.Rows)
		})

	case "kill":
		h.withSession(conn, msg.SessionID, func(id terminal.SessionID) error {
			return h.manager.Kill(id)
		})

	case "ping":
		conn.send(map[string]interface{}{"type": "pong"})

	default:
		h.sendError(conn, "unknown message type")
	}
}

// withSession parses the id and runs fn, reporting failures as error
// frames. Command failures never close the stream.
func (h *Handler) withSession(conn *wsConn, sessionID string, fn func(terminal.SessionID) error) {
	id, err := terminal.ParseSessionID(sessionID)
	if err != nil {
		h.sendError(conn, err.Error())
		return
	}
	if err := fn(id); err != nil {
		h.sendError(conn, err.Error())
	}
}

func (h *Handler) sendError(conn *wsConn, msg string) {
	conn.send(map[string]interface{}{
		"type":    "error",
		"message": msg,
	})
}
