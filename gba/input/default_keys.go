package input

import "github.com/arn-dahl/gogba/gba/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override or extend them.
var DefaultKeyMap = map[string]action.Action{
	// Console controls
	"z":     action.ButtonA,
	"x":     action.ButtonB,
	"Enter": action.ButtonStart,
	"Shift": action.ButtonSelect,
	"Up":    action.DPadUp,
	"Down":  action.DPadDown,
	"Left":  action.DPadLeft,
	"Right": action.DPadRight,
	"a":     action.ButtonL,
	"s":     action.ButtonR,

	// Alternative movement keys
	"w": action.DPadUp,
	"k": action.DPadDown,

	// Emulator controls
	"Space":  action.EmulatorPauseToggle,
	"p":      action.EmulatorPauseToggle,
	"o":      action.EmulatorStepFrame,
	"F9":     action.EmulatorSnapshot,
	"F10":    action.EmulatorDebugToggle,
	"Escape": action.EmulatorQuit,
	"q":      action.EmulatorQuit,

	// Audio debug controls
	"F1": action.AudioToggleChannel1,
	"F2": action.AudioToggleChannel2,
	"F3": action.AudioToggleChannel3,
	"F4": action.AudioToggleChannel4,
	"1":  action.AudioSoloChannel1,
	"2":  action.AudioSoloChannel2,
	"3":  action.AudioSoloChannel3,
	"4":  action.AudioSoloChannel4,
}

// GetDefaultMapping returns the default action for a key, if one exists.
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
