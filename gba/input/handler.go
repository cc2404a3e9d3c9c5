package input

import (
	"time"

	"github.com/arn-dahl/gogba/gba/backend"
	"github.com/arn-dahl/gogba/gba/input/action"
	"github.com/arn-dahl/gogba/gba/input/event"
)

// Handler applies debouncing to Press events of actions whose
// action.Info.Debounce is set, so a backend's own key-repeat timing
// doesn't flood emulator and audio-debug actions.
type Handler struct {
	lastActionTime map[action.Action]time.Time
	debounceDelay  time.Duration
}

func NewHandler() *Handler {
	return &Handler{
		lastActionTime: make(map[action.Action]time.Time),
		debounceDelay:  300 * time.Millisecond,
	}
}

// ProcessEvent reports whether evt should be acted on, or was suppressed
// by debouncing. Release and Hold events, and console-button actions, are
// never debounced.
func (h *Handler) ProcessEvent(evt backend.InputEvent) bool {
	if evt.Type == event.Press && action.GetInfo(evt.Action).Debounce {
		now := time.Now()
		if lastTime, exists := h.lastActionTime[evt.Action]; exists {
			if now.Sub(lastTime) < h.debounceDelay {
				return false
			}
		}
		h.lastActionTime[evt.Action] = now
	}

	return true
}
