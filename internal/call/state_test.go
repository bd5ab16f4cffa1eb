package call

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForState(t *testing.T, m *Machine, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("machine never reached %s, stuck at %s", want, m.State())
}

func TestDialRingsThenConnects(t *testing.T) {
	m := NewMachine(10 * time.Millisecond)

	connected := make(chan struct{})
	m.OnConnected = func() { close(connected) }

	require.NoError(t, m.Dial())
	assert.Equal(t, StateRinging, m.State())

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatal("OnConnected never fired")
	}
	assert.Equal(t, StateConnected, m.State())
}

func TestDialOnlyFromIdle(t *testing.T) {
	m := NewMachine(time.Hour)
	require.NoError(t, m.Dial())
	assert.Error(t, m.Dial())
}

func TestFullTurnCycle(t *testing.T) {
	m := NewMachine(time.Millisecond)
	require.NoError(t, m.Dial())
	waitForState(t, m, StateConnected)

	// Initial greeting with audio, then a spoken exchange.
	require.NoError(t, m.Reply(true))
	assert.Equal(t, StateSpeaking, m.State())
	require.NoError(t, m.PlaybackDone())
	assert.Equal(t, StateListening, m.State())

	require.NoError(t, m.Capture())
	assert.Equal(t, StateProcessing, m.State())
	require.NoError(t, m.Reply(false))
	assert.Equal(t, StateListening, m.State())
}

func TestReplyInvalidWhileSpeaking(t *testing.T) {
	m := NewMachine(time.Millisecond)
	require.NoError(t, m.Dial())
	waitForState(t, m, StateConnected)
	require.NoError(t, m.Reply(true))

	assert.Error(t, m.Reply(true))
	assert.Error(t, m.Capture())
}

func TestHangupDuringRingingStopsConnect(t *testing.T) {
	m := NewMachine(20 * time.Millisecond)
	var mu sync.Mutex
	var fired bool
	m.OnConnected = func() {
		mu.Lock()
		fired = true
		mu.Unlock()
	}

	require.NoError(t, m.Dial())
	require.NoError(t, m.Hangup())
	assert.Equal(t, StateEnded, m.State())

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, fired)
	assert.Equal(t, StateEnded, m.State())
}

func TestHangupAbortsMidTurn(t *testing.T) {
	m := NewMachine(time.Millisecond)
	aborted := false
	m.OnAbort = func() { aborted = true }

	require.NoError(t, m.Dial())
	waitForState(t, m, StateConnected)
	require.NoError(t, m.Reply(true))

	require.NoError(t, m.Hangup())
	assert.True(t, aborted)
	assert.Equal(t, StateEnded, m.State())

	// Terminal: no event restarts an ended call.
	assert.Error(t, m.Dial())
	assert.Error(t, m.Capture())
	assert.Error(t, m.Reply(false))
	assert.Error(t, m.PlaybackDone())
}

func TestHangupIdempotent(t *testing.T) {
	m := NewMachine(time.Millisecond)
	aborts := 0
	m.OnAbort = func() { aborts++ }

	require.NoError(t, m.Dial())
	require.NoError(t, m.Hangup())
	require.NoError(t, m.Hangup())
	assert.Equal(t, 1, aborts)
}

func TestTransitionHookSeesEveryEdge(t *testing.T) {
	m := NewMachine(time.Millisecond)
	var mu sync.Mutex
	var edges []string
	m.OnTransition = func(from, to State) {
		mu.Lock()
		edges = append(edges, from.String()+">"+to.String())
		mu.Unlock()
	}

	require.NoError(t, m.Dial())
	waitForState(t, m, StateConnected)
	require.NoError(t, m.Reply(false))
	require.NoError(t, m.Hangup())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"idle>ringing",
		"ringing>connected",
		"connected>listening",
		"listening>ended",
	}, edges)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "speaking", StateSpeaking.String())
	assert.Equal(t, "state(42)", State(42).String())
}
