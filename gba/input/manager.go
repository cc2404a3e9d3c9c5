// Package input translates backend-reported key events into console
// keypad state and emulator/audio-debug callbacks.
package input

import (
	"time"

	"github.com/arn-dahl/gogba/gba/addr"
	"github.com/arn-dahl/gogba/gba/input/action"
	"github.com/arn-dahl/gogba/gba/input/event"
)

const debounceDuration = 300 * time.Millisecond

// KeyBus is the keypad side of the memory bus a Manager drives console
// controls through. gba/membus.Bus satisfies it.
type KeyBus interface {
	KeyEvent(key addr.Key, pressed bool)
}

// Manager routes reported input actions to console keypad state and to
// registered callbacks for everything else (emulator and audio-debug
// actions).
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]map[event.Type]time.Time
	bus           KeyBus
}

func NewManager(bus KeyBus) *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]map[event.Type]time.Time),
		bus:           bus,
	}
}

// On registers a callback for a specific action and event type.
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	if m.lastTriggered[act] == nil {
		m.lastTriggered[act] = make(map[event.Type]time.Time)
	}

	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if evt == event.Press || evt == event.Release {
		now := time.Now()
		if m.lastTriggered[act] == nil {
			m.lastTriggered[act] = make(map[event.Type]time.Time)
		}
		lastTime := m.lastTriggered[act][evt]
		if now.Sub(lastTime) < debounceDuration {
			return
		}
		m.lastTriggered[act][evt] = now
	}

	if m.bus != nil {
		if key, ok := keypadKey(act); ok {
			switch evt {
			case event.Press:
				m.bus.KeyEvent(key, true)
			case event.Release:
				m.bus.KeyEvent(key, false)
			}
			return
		}
	}

	if m.handlers[act] != nil {
		for _, callback := range m.handlers[act][evt] {
			callback()
		}
	}
}

// keypadKey maps a console-control action to its keypad register bit.
func keypadKey(act action.Action) (addr.Key, bool) {
	switch act {
	case action.ButtonA:
		return addr.KeyA, true
	case action.ButtonB:
		return addr.KeyB, true
	case action.ButtonStart:
		return addr.KeyStart, true
	case action.ButtonSelect:
		return addr.KeySelect, true
	case action.DPadUp:
		return addr.KeyUp, true
	case action.DPadDown:
		return addr.KeyDown, true
	case action.DPadLeft:
		return addr.KeyLeft, true
	case action.DPadRight:
		return addr.KeyRight, true
	case action.ButtonL:
		return addr.KeyL, true
	case action.ButtonR:
		return addr.KeyR, true
	default:
		return 0, false
	}
}
