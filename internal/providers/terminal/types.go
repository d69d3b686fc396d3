package terminal

import (
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

// SessionID identifies one PTY session for the lifetime of the process.
// IDs are issued by an incrementing counter starting at 1 and are never
// reused; callers see them as decimal strings.
type SessionID uint32

// String serializes the id the way the frontend addresses sessions.
func (id SessionID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseSessionID parses a caller-supplied session id string.
func ParseSessionID(s string) (SessionID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, ErrInvalidSessionID
	}
	return SessionID(v), nil
}

// Session binds one PTY master and its child process to a logical
// terminal tab. The master, the write path, and the kill path are guarded
// independently so a blocked write never delays a concurrent resize.
type Session struct {
	id        SessionID
	command   string
	startedAt time.Time

	cmd  *exec.Cmd
	ptmx *os.File

	writeMu  sync.Mutex
	resizeMu sync.Mutex
	killMu   sync.Mutex

	// closed by the reader goroutine when its loop ends; the exit waiter
	// blocks on it so the exit event is always the session's last event.
	readerDone chan struct{}
}

// Info is the externally visible snapshot of a session.
type Info struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	StartedAt time.Time `json:"started_at"`
}

// SpawnRequest describes a new session.
type SpawnRequest struct {
	Command string
	Args    []string
	Cols    uint16
	Rows    uint16
	Cwd     string
	Env     map[string]string
}

// DataEvent carries one chunk of child output, in read order.
type DataEvent struct {
	SessionID string `json:"sessionId"`
	Data      string `json:"data"`
}

// ExitEvent is the terminal event for a session, emitted exactly once.
type ExitEvent struct {
	SessionID string `json:"sessionId"`
	Code      int    `json:"code"`
}

// Event type names as seen on the wire.
const (
	EventData = "pty:data"
	EventExit = "pty:exit"
)

// Sink receives session events. The core depends on nothing else from
// its environment.
type Sink interface {
	EmitData(DataEvent)
	EmitExit(ExitEvent)
}
