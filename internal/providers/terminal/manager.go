package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/jmluang/xTerm/internal/infrastructure/logging"
	"github.com/jmluang/xTerm/internal/infrastructure/monitoring"
)

const readBufferSize = 4096

// Manager is the registry of live PTY sessions. It is the only place
// sessions are created or removed: Spawn inserts, and the per-session
// exit waiter removes after the child is confirmed dead. Registry
// absence is therefore the single source of truth for "session is gone".
type Manager struct {
	sink   Sink
	logger *logging.Logger

	nextID atomic.Uint32

	mu       sync.RWMutex
	sessions map[SessionID]*Session

	metrics *monitoring.Metrics
}

// NewManager creates a session manager emitting events to sink.
func NewManager(sink Sink, logger *logging.Logger) *Manager {
	return &Manager{
		sink:     sink,
		logger:   logger,
		sessions: make(map[SessionID]*Session),
	}
}

// WithMetrics attaches a metrics collector.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Spawn opens a PTY with the requested geometry, starts the child
// process on it, registers the session, and launches both background
// goroutines before returning. Every successful spawn is guaranteed at
// least one event: the exit event, even for a child that dies instantly
// with no output. Failed spawns never reach the registry.
func (m *Manager) Spawn(req SpawnRequest) (SessionID, error) {
	cols := req.Cols
	if cols == 0 {
		cols = 80
	}
	rows := req.Rows
	if rows == 0 {
		rows = 24
	}

	cmd := exec.Command(req.Command, req.Args...)
	if req.Cwd != "" {
		cmd.Dir = req.Cwd
	}
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	for _, k := range sortedKeys(req.Env) {
		cmd.Env = append(cmd.Env, k+"="+req.Env[k])
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: rows, Cols: cols})
	if err != nil {
		if m.metrics != nil {
			m.metrics.SpawnFailures.Inc()
		}
		return 0, fmt.Errorf("spawn %s: %w", req.Command, err)
	}

	id := SessionID(m.nextID.Add(1))
	s := &Session{
		id:         id,
		command:    req.Command,
		startedAt:  time.Now(),
		cmd:        cmd,
		ptmx:       ptmx,
		readerDone: make(chan struct{}),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SpawnsTotal.Inc()
		m.metrics.SessionsActive.Inc()
	}
	m.logger.Info("session spawned",
		zap.String("session_id", id.String()),
		zap.String("command", req.Command),
		zap.Uint16("cols", cols),
		zap.Uint16("rows", rows),
	)

	go m.readLoop(s)
	go m.waitExit(s)

	return id, nil
}

// Write forwards bytes verbatim to the child's input. Back-pressure is
// the OS pipe's: the call blocks on a full buffer.
func (m *Manager) Write(id SessionID, data []byte) error {
	s, ok := m.lookup(id)
	if !ok {
		return ErrUnknownSession
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.ptmx.Write(data); err != nil {
		return fmt.Errorf("write session %s: %w", id, err)
	}
	return nil
}

// Resize updates the PTY geometry. The child observes the change via
// SIGWINCH; nothing is emitted on success.
func (m *Manager) Resize(id SessionID, cols, rows uint16) error {
	s, ok := m.lookup(id)
	if !ok {
		return ErrUnknownSession
	}

	s.resizeMu.Lock()
	defer s.resizeMu.Unlock()

	if err := pty.Setsize(s.ptmx, &pty.Winsize{Rows: rows, Cols: cols}); err != nil {
		return fmt.Errorf("resize session %s: %w", id, err)
	}
	return nil
}

// Kill requests forceful termination of the child. Fire-and-forget: it
// does not wait for the exit event, which still arrives through the exit
// waiter like any natural death. Killing a child that just died on its
// own is benign.
func (m *Manager) Kill(id SessionID) error {
	s, ok := m.lookup(id)
	if !ok {
		return ErrUnknownSession
	}

	s.killMu.Lock()
	defer s.killMu.Unlock()

	if s.cmd.Process == nil {
		return nil
	}
	if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill session %s: %w", id, err)
	}
	return nil
}

// List returns snapshots of all live sessions.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	live := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		live = append(live, s)
	}
	sort.Slice(live, func(i, j int) bool { return live[i].id < live[j].id })

	infos := make([]Info, 0, len(live))
	for _, s := range live {
		infos = append(infos, Info{
			ID:        s.id.String(),
			Command:   s.command,
			StartedAt: s.startedAt,
		})
	}
	return infos
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) lookup(id SessionID) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	return s, ok
}

// readLoop streams child output to the sink until the device reports
// end-of-stream. End-of-stream is the expected termination condition,
// not a fault: the master read fails once the child exits and the last
// slave handle closes. The loop never touches the registry.
func (m *Manager) readLoop(s *Session) {
	defer close(s.readerDone)

	buf := make([]byte, readBufferSize)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			if m.metrics != nil {
				m.metrics.PTYBytesRead.Add(float64(n))
			}
			m.sink.EmitData(DataEvent{
				SessionID: s.id.String(),
				Data:      strings.ToValidUTF8(string(buf[:n]), "�"),
			})
		}
		if err != nil {
			return
		}
	}
}

// waitExit blocks until the child terminates, then emits the session's
// single exit event and removes the registry entry. It is the exclusive
// removal writer, so a present entry always means the process has not
// yet reported death. Waiting for the reader first keeps the exit event
// strictly last among the session's events.
func (m *Manager) waitExit(s *Session) {
	waitErr := s.cmd.Wait()

	code := exitCodeUnknown
	if ps := s.cmd.ProcessState; ps != nil {
		if c := ps.ExitCode(); c >= 0 {
			code = c
		}
	}

	<-s.readerDone

	m.sink.EmitExit(ExitEvent{SessionID: s.id.String(), Code: code})

	m.mu.Lock()
	delete(m.sessions, s.id)
	m.mu.Unlock()

	s.ptmx.Close()

	if m.metrics != nil {
		m.metrics.SessionsActive.Dec()
		m.metrics.ExitsTotal.Inc()
	}
	m.logger.Info("session exited",
		zap.String("session_id", s.id.String()),
		zap.Int("code", code),
		zap.NamedError("wait_error", waitErr),
	)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
