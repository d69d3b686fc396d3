package terminal

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmluang/xTerm/internal/infrastructure/logging"
)

// recordSink captures events and signals each exit so tests can wait
// without polling.
type recordSink struct {
	mu    sync.Mutex
	data  []DataEvent
	exits []ExitEvent

	exited chan ExitEvent
}

func newRecordSink() *recordSink {
	return &recordSink{exited: make(chan ExitEvent, 16)}
}

func (s *recordSink) EmitData(ev DataEvent) {
	s.mu.Lock()
	s.data = append(s.data, ev)
	s.mu.Unlock()
}

func (s *recordSink) EmitExit(ev ExitEvent) {
	s.mu.Lock()
	s.exits = append(s.exits, ev)
	s.mu.Unlock()
	s.exited <- ev
}

func (s *recordSink) output(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	for _, ev := range s.data {
		if ev.SessionID == sessionID {
			b.WriteString(ev.Data)
		}
	}
	return b.String()
}

func (s *recordSink) exitEvents() []ExitEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ExitEvent(nil), s.exits...)
}

func (s *recordSink) waitExit(t *testing.T, timeout time.Duration) ExitEvent {
	t.Helper()
	select {
	case ev := <-s.exited:
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for exit event")
		return ExitEvent{}
	}
}

func newTestManager(t *testing.T) (*Manager, *recordSink) {
	t.Helper()
	sink := newRecordSink()
	return NewManager(sink, logging.NewNop()), sink
}

// waitGone waits for the waiter goroutine to remove the session after
// its exit event was observed.
func waitGone(t *testing.T, m *Manager, id SessionID) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := m.lookup(id); !ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session %s still registered", id)
}

func TestSpawnIDsStrictlyIncreasing(t *testing.T) {
	m, sink := newTestManager(t)

	var ids []SessionID
	for i := 0; i < 3; i++ {
		id, err := m.Spawn(SpawnRequest{Command: "true"})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	for range ids {
		sink.waitExit(t, 5*time.Second)
	}

	for i := 1; i < len(ids); i++ {
		assert.Greater(t, ids[i], ids[i-1])
	}
	assert.Equal(t, SessionID(1), ids[0])
}

func TestSpawnEchoEmitsDataThenExitZero(t *testing.T) {
	m, sink := newTestManager(t)

	id, err := m.Spawn(SpawnRequest{Command: "echo", Args: []string{"hello"}})
	require.NoError(t, err)

	ev := sink.waitExit(t, 5*time.Second)
	assert.Equal(t, id.String(), ev.SessionID)
	assert.Equal(t, 0, ev.Code)
	assert.Contains(t, sink.output(id.String()), "hello")
	waitGone(t, m, id)
}

func TestSpawnSilentChildStillEmitsExit(t *testing.T) {
	m, sink := newTestManager(t)

	id, err := m.Spawn(SpawnRequest{Command: "true"})
	require.NoError(t, err)

	ev := sink.waitExit(t, 5*time.Second)
	assert.Equal(t, id.String(), ev.SessionID)
	assert.Equal(t, 0, ev.Code)
}

func TestSpawnNonZeroExitCode(t *testing.T) {
	m, sink := newTestManager(t)

	_, err := m.Spawn(SpawnRequest{Command: "sh", Args: []string{"-c", "exit 3"}})
	require.NoError(t, err)

	ev := sink.waitExit(t, 5*time.Second)
	assert.Equal(t, 3, ev.Code)
}

func TestKillTerminatesPromptly(t *testing.T) {
	m, sink := newTestManager(t)

	id, err := m.Spawn(SpawnRequest{Command: "sleep", Args: []string{"300"}})
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, m.Kill(id))

	ev := sink.waitExit(t, 5*time.Second)
	assert.Equal(t, id.String(), ev.SessionID)
	assert.NotZero(t, ev.Code, "killed child must not report success")
	assert.Less(t, time.Since(start), 3*time.Second)
	waitGone(t, m, id)
}

func TestWriteRoundTrip(t *testing.T) {
	m, sink := newTestManager(t)

	id, err := m.Spawn(SpawnRequest{Command: "cat"})
	require.NoError(t, err)

	require.NoError(t, m.Write(id, []byte("ping\n")))

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(sink.output(id.String()), "ping") {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Contains(t, sink.output(id.String()), "ping")

	require.NoError(t, m.Kill(id))
	sink.waitExit(t, 5*time.Second)
}

func TestExitEventIsLast(t *testing.T) {
	m, sink := newTestManager(t)

	id, err := m.Spawn(SpawnRequest{Command: "sh", Args: []string{"-c", "printf last-line"}})
	require.NoError(t, err)
	sink.waitExit(t, 5*time.Second)

	// All data was recorded before the exit event was emitted.
	assert.Contains(t, sink.output(id.String()), "last-line")
	require.Len(t, sink.exitEvents(), 1)
}

func TestUnknownSessionErrors(t *testing.T) {
	m, _ := newTestManager(t)

	const id = SessionID(42)
	assert.ErrorIs(t, m.Write(id, []byte("x")), ErrUnknownSession)
	assert.ErrorIs(t, m.Resize(id, 80, 24), ErrUnknownSession)
	assert.ErrorIs(t, m.Kill(id), ErrUnknownSession)
}

func TestOperationsAfterExitReportUnknownSession(t *testing.T) {
	m, sink := newTestManager(t)

	id, err := m.Spawn(SpawnRequest{Command: "true"})
	require.NoError(t, err)
	sink.waitExit(t, 5*time.Second)
	waitGone(t, m, id)

	assert.ErrorIs(t, m.Write(id, []byte("x")), ErrUnknownSession)
	assert.ErrorIs(t, m.Kill(id), ErrUnknownSession)
}

func TestResizeLiveSession(t *testing.T) {
	m, sink := newTestManager(t)

	id, err := m.Spawn(SpawnRequest{Command: "sleep", Args: []string{"300"}})
	require.NoError(t, err)

	assert.NoError(t, m.Resize(id, 120, 40))
	assert.NoError(t, m.Resize(id, 120, 40), "repeat resize to same size is silent")

	require.NoError(t, m.Kill(id))
	sink.waitExit(t, 5*time.Second)
}

func TestSpawnFailureLeavesNoTrace(t *testing.T) {
	m, sink := newTestManager(t)

	_, err := m.Spawn(SpawnRequest{Command: "/nonexistent/definitely-not-a-binary"})
	require.Error(t, err)

	assert.Zero(t, m.Count())
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, sink.exitEvents())
}

func TestListReflectsLiveSessions(t *testing.T) {
	m, sink := newTestManager(t)

	a, err := m.Spawn(SpawnRequest{Command: "sleep", Args: []string{"300"}})
	require.NoError(t, err)
	b, err := m.Spawn(SpawnRequest{Command: "sleep", Args: []string{"300"}})
	require.NoError(t, err)

	infos := m.List()
	require.Len(t, infos, 2)
	assert.Equal(t, a.String(), infos[0].ID)
	assert.Equal(t, b.String(), infos[1].ID)
	assert.Equal(t, "sleep", infos[0].Command)

	require.NoError(t, m.Kill(a))
	require.NoError(t, m.Kill(b))
	sink.waitExit(t, 5*time.Second)
	sink.waitExit(t, 5*time.Second)
	waitGone(t, m, a)
	waitGone(t, m, b)
	assert.Empty(t, m.List())
}

func TestEnvAndCwdApplied(t *testing.T) {
	m, sink := newTestManager(t)

	id, err := m.Spawn(SpawnRequest{
		Command: "sh",
		Args:    []string{"-c", "printf '%s:%s' \"$GREETING\" \"$PWD\""},
		Cwd:     "/tmp",
		Env:     map[string]string{"GREETING": "howdy"},
	})
	require.NoError(t, err)
	sink.waitExit(t, 5*time.Second)

	out := sink.output(id.String())
	assert.Contains(t, out, "howdy:")
	assert.Contains(t, out, "/tmp")
}

func TestParseSessionID(t *testing.T) {
	id, err := ParseSessionID("7")
	require.NoError(t, err)
	assert.Equal(t, SessionID(7), id)

	_, err = ParseSessionID("not-a-number")
	assert.ErrorIs(t, err, ErrInvalidSessionID)

	_, err = ParseSessionID("-1")
	assert.ErrorIs(t, err, ErrInvalidSessionID)
}
