package call

import (
	"fmt"
	"sync"
	"time"
)

// State is the client-facing voice call lifecycle.
type State int

const (
	StateIdle State = iota
	StateRinging
	StateConnected
	StateListening
	StateProcessing
	StateSpeaking
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRinging:
		return "ringing"
	case StateConnected:
		return "connected"
	case StateListening:
		return "listening"
	case StateProcessing:
		return "processing"
	case StateSpeaking:
		return "speaking"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Machine drives one call. Ringing auto-advances to Connected after the
// ring delay; entering Connected fires OnConnected, which is where the
// initial-greeting request belongs. Ended is terminal and reachable from
// every state via Hangup, which stops the ring timer and invokes OnAbort
// synchronously so in-flight recognition and playback stop immediately.
type Machine struct {
	mu        sync.Mutex
	state     State
	ringDelay time.Duration
	ringTimer *time.Timer

	// Hooks, all optional. They are invoked outside the state lock so a
	// hook may drive the machine further (e.g. OnConnected firing Reply).
	OnConnected  func()
	OnAbort      func()
	OnTransition func(from, to State)
}

func NewMachine(ringDelay time.Duration) *Machine {
	return &Machine{state: StateIdle, ringDelay: ringDelay}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) invalid(event string, from State) error {
	return fmt.Errorf("call: invalid transition %q from %s", event, from)
}

// Dial starts the call: Idle -> Ringing, then Connected after ringDelay.
func (m *Machine) Dial() error {
	m.mu.Lock()
	if m.state != StateIdle {
		defer m.mu.Unlock()
		return m.invalid("dial", m.state)
	}
	from := m.state
	m.state = StateRinging
	m.ringTimer = time.AfterFunc(m.ringDelay, m.connect)
	m.mu.Unlock()

	m.notify(from, StateRinging)
	return nil
}

func (m *Machine) connect() {
	m.mu.Lock()
	if m.state != StateRinging {
		m.mu.Unlock()
		return
	}
	from := m.state
	m.state = StateConnected
	connected := m.OnConnected
	m.mu.Unlock()

	m.notify(from, StateConnected)
	if connected != nil {
		connected()
	}
}

// Capture records that an utterance was taken: Listening -> Processing.
func (m *Machine) Capture() error {
	return m.step("capture", StateProcessing, StateListening)
}

// Reply records a completed turn. With audio the call moves to Speaking
// until playback finishes; without audio it goes straight back to
// Listening. Valid from Processing and from Connected (initial greeting).
func (m *Machine) Reply(hasAudio bool) error {
	to := StateListening
	if hasAudio {
		to = StateSpeaking
	}
	return m.step("reply", to, StateProcessing, StateConnected)
}

// PlaybackDone returns the call to Listening once audio finished.
func (m *Machine) PlaybackDone() error {
	return m.step("playback_done", StateListening, StateSpeaking)
}

// Hangup ends the call from any state. Idempotent once Ended.
func (m *Machine) Hangup() error {
	m.mu.Lock()
	if m.state == StateEnded {
		m.mu.Unlock()
		return nil
	}
	from := m.state
	m.state = StateEnded
	if m.ringTimer != nil {
		m.ringTimer.Stop()
		m.ringTimer = nil
	}
	abort := m.OnAbort
	m.mu.Unlock()

	if abort != nil {
		abort()
	}
	m.notify(from, StateEnded)
	return nil
}

func (m *Machine) step(event string, to State, validFrom ...State) error {
	m.mu.Lock()
	ok := false
	for _, s := range validFrom {
		if m.state == s {
			ok = true
			break
		}
	}
	if !ok {
		defer m.mu.Unlock()
		return m.invalid(event, m.state)
	}
	from := m.state
	m.state = to
	m.mu.Unlock()

	m.notify(from, to)
	return nil
}

func (m *Machine) notify(from, to State) {
	if m.OnTransition != nil {
		m.OnTransition(from, to)
	}
}
