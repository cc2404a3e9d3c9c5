package input

import (
	"testing"
	"time"

	"github.com/arn-dahl/gogba/gba/addr"
	"github.com/arn-dahl/gogba/gba/input/action"
	"github.com/arn-dahl/gogba/gba/input/event"
	"github.com/stretchr/testify/assert"
)

type fakeKeyBus struct {
	events []struct {
		key     addr.Key
		pressed bool
	}
}

func (f *fakeKeyBus) KeyEvent(key addr.Key, pressed bool) {
	f.events = append(f.events, struct {
		key     addr.Key
		pressed bool
	}{key, pressed})
}

func TestManagerRoutesConsoleButtonsToKeyBus(t *testing.T) {
	bus := &fakeKeyBus{}
	m := NewManager(bus)

	m.Trigger(action.ButtonA, event.Press)
	m.Trigger(action.DPadUp, event.Press)
	m.Trigger(action.ButtonA, event.Release)

	assert.Len(t, bus.events, 3)
	assert.Equal(t, addr.KeyA, bus.events[0].key)
	assert.True(t, bus.events[0].pressed)
	assert.Equal(t, addr.KeyUp, bus.events[1].key)
	assert.Equal(t, addr.KeyA, bus.events[2].key)
	assert.False(t, bus.events[2].pressed)
}

func TestManagerInvokesCallbacksForNonConsoleActions(t *testing.T) {
	bus := &fakeKeyBus{}
	m := NewManager(bus)

	called := false
	m.On(action.EmulatorPauseToggle, event.Press, func() { called = true })

	m.Trigger(action.EmulatorPauseToggle, event.Press)

	assert.True(t, called)
	assert.Empty(t, bus.events)
}

func TestManagerDebouncesRapidPressRelease(t *testing.T) {
	bus := &fakeKeyBus{}
	m := NewManager(bus)

	calls := 0
	m.On(action.EmulatorSnapshot, event.Press, func() { calls++ })

	m.Trigger(action.EmulatorSnapshot, event.Press)
	m.Trigger(action.EmulatorSnapshot, event.Press)

	assert.Equal(t, 1, calls)

	time.Sleep(debounceDuration + 10*time.Millisecond)
	m.Trigger(action.EmulatorSnapshot, event.Press)
	assert.Equal(t, 2, calls)
}

func TestManagerWithNilBusStillInvokesCallbacks(t *testing.T) {
	m := NewManager(nil)

	called := false
	m.On(action.EmulatorQuit, event.Press, func() { called = true })
	m.Trigger(action.EmulatorQuit, event.Press)

	assert.True(t, called)
}
