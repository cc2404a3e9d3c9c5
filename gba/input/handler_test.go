package input

import (
	"testing"
	"time"

	"github.com/arn-dahl/gogba/gba/backend"
	"github.com/arn-dahl/gogba/gba/input/action"
	"github.com/arn-dahl/gogba/gba/input/event"
	"github.com/stretchr/testify/assert"
)

func TestHandlerDebouncing(t *testing.T) {
	tests := []struct {
		name           string
		action         action.Action
		eventType      event.Type
		timeBetween    time.Duration
		expectDebounce bool
	}{
		{
			name:           "UI action rapid press - should debounce",
			action:         action.EmulatorDebugToggle,
			eventType:      event.Press,
			timeBetween:    50 * time.Millisecond,
			expectDebounce: true,
		},
		{
			name:           "UI action slow press - should not debounce",
			action:         action.EmulatorDebugToggle,
			eventType:      event.Press,
			timeBetween:    350 * time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "console button rapid press - should not debounce",
			action:         action.ButtonA,
			eventType:      event.Press,
			timeBetween:    10 * time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "UI action release event - should not debounce",
			action:         action.EmulatorDebugToggle,
			eventType:      event.Release,
			timeBetween:    10 * time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "hold event type - should not debounce",
			action:         action.EmulatorDebugToggle,
			eventType:      event.Hold,
			timeBetween:    10 * time.Millisecond,
			expectDebounce: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler()

			evt1 := backend.InputEvent{Action: tt.action, Type: tt.eventType}
			assert.True(t, handler.ProcessEvent(evt1), "first event should always pass")

			time.Sleep(tt.timeBetween)

			evt2 := backend.InputEvent{Action: tt.action, Type: tt.eventType}
			result := handler.ProcessEvent(evt2)

			if tt.expectDebounce {
				assert.False(t, result, "second event should be debounced")
			} else {
				assert.True(t, result, "second event should not be debounced")
			}
		})
	}
}

func TestHandlerMultipleActionsDontInterfere(t *testing.T) {
	handler := NewHandler()

	evt1 := backend.InputEvent{Action: action.EmulatorDebugToggle, Type: event.Press}
	evt2 := backend.InputEvent{Action: action.EmulatorSnapshot, Type: event.Press}

	assert.True(t, handler.ProcessEvent(evt1))
	assert.True(t, handler.ProcessEvent(evt2))

	assert.False(t, handler.ProcessEvent(evt1), "rapid repeat of first action should debounce")
	assert.False(t, handler.ProcessEvent(evt2), "rapid repeat of second action should debounce")
}

func TestHandlerHoldNeverDebounces(t *testing.T) {
	handler := NewHandler()
	evt := backend.InputEvent{Action: action.EmulatorDebugToggle, Type: event.Hold}

	for i := 0; i < 5; i++ {
		assert.True(t, handler.ProcessEvent(evt), "hold event should always pass")
	}
}
