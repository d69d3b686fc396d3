package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmluang/xTerm/internal/events"
	"github.com/jmluang/xTerm/internal/infrastructure/logging"
	"github.com/jmluang/xTerm/internal/providers/terminal"
)

// hubSink publishes terminal events to the hub, mirroring the server
// wiring.
type hubSink struct{ hub *events.Hub }

func (s *hubSink) EmitData(ev terminal.DataEvent) {
	s.hub.Publish(events.Event{Type: terminal.EventData, Payload: ev})
}

func (s *hubSink) EmitExit(ev terminal.ExitEvent) {
	s.hub.Publish(events.Event{Type: terminal.EventExit, Payload: ev})
}

type frame map[string]interface{}

func dialTestServer(t *testing.T) (*websocket.Conn, *terminal.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := events.NewHub()
	manager := terminal.NewManager(&hubSink{hub: hub}, logging.NewNop())
	handler := NewHandler(manager, hub, logging.NewNop())

	router := gin.New()
	router.GET("/stream", handler.HandleConnection)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Consume the welcome frame.
	var welcome frame
	require.NoError(t, conn.ReadJSON(&welcome))
	require.Equal(t, "system", welcome["type"])

	return conn, manager
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func send(t *testing.T, conn *websocket.Conn, f frame) {
	t.Helper()
	data, err := json.Marshal(f)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func TestPingPong(t *testing.T) {
	conn, _ := dialTestServer(t)

	send(t, conn, frame{"type": "ping"})
	assert.Equal(t, "pong", readFrame(t, conn)["type"])
}

func TestSpawnStreamsDataThenExit(t *testing.T) {
	conn, _ := dialTestServer(t)

	send(t, conn, frame{"type": "spawn", "command": "echo", "args": []string{"hello"}})

	spawned := readFrame(t, conn)
	require.Equal(t, "spawned", spawned["type"])
	sessionID, _ := spawned["sessionId"].(string)
	require.NotEmpty(t, sessionID)

	var sawHello bool
	for {
		f := readFrame(t, conn)
		switch f["type"] {
		case "pty:data":
			assert.Equal(t, sessionID, f["sessionId"])
			if strings.Contains(f["data"].(string), "hello") {
				sawHello = true
			}
		case "pty:exit":
			assert.Equal(t, sessionID, f["sessionId"])
			assert.Equal(t, float64(0), f["code"])
			assert.True(t, sawHello, "exit arrives after the data")
			return
		default:
			t.Fatalf("unexpected frame: %v", f)
		}
	}
}

func TestWriteRoundTripOverStream(t *testing.T) {
	conn, _ := dialTestServer(t)

	send(t, conn, frame{"type": "spawn", "command": "cat"})
	spawned := readFrame(t, conn)
	sessionID := spawned["sessionId"].(string)

	send(t, conn, frame{"type": "write", "sessionId": sessionID, "data": "ping\n"})

	for {
		f := readFrame(t, conn)
		if f["type"] == "pty:data" && strings.Contains(f["data"].(string), "ping") {
			break
		}
	}

	send(t, conn, frame{"type": "kill", "sessionId": sessionID})
	for {
		if readFrame(t, conn)["type"] == "pty:exit" {
			return
		}
	}
}

func TestCommandErrorsKeepStreamOpen(t *testing.T) {
	conn, _ := dialTestServer(t)

	send(t, conn, frame{"type": "write", "sessionId": "999", "data": "x"})
	errFrame := readFrame(t, conn)
	assert.Equal(t, "error", errFrame["type"])
	assert.Contains(t, errFrame["message"], "unknown session")

	send(t, conn, frame{"type": "resize", "sessionId": "not-a-number", "cols": 80, "rows": 24})
	errFrame = readFrame(t, conn)
	assert.Equal(t, "error", errFrame["type"])

	// The stream still answers after failed commands.
	send(t, conn, frame{"type": "ping"})
	assert.Equal(t, "pong", readFrame(t, conn)["type"])
}

func TestUnknownMessageType(t *testing.T) {
	conn, _ := dialTestServer(t)

	send(t, conn, frame{"type": "bogus"})
	errFrame := readFrame(t, conn)
	assert.Equal(t, "error", errFrame["type"])
	assert.Equal(t, "unknown message type", errFrame["message"])
}
