// Package action enumerates the input actions a backend can report,
// independent of which physical key produced them.
package action

// Action represents input actions that can be performed in the emulator.
type Action int

const (
	// Console hardware controls (the ten physical keypad buttons).
	ButtonA Action = iota
	ButtonB
	ButtonStart
	ButtonSelect
	DPadRight
	DPadLeft
	DPadUp
	DPadDown
	ButtonR
	ButtonL

	// Emulator features
	EmulatorDebugToggle
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorQuit

	// Audio debugging
	AudioToggleChannel1
	AudioToggleChannel2
	AudioToggleChannel3
	AudioToggleChannel4
	AudioSoloChannel1
	AudioSoloChannel2
	AudioSoloChannel3
	AudioSoloChannel4
)

// Category groups actions for routing purposes.
type Category int

const (
	CategoryConsoleInput Category = iota
	CategoryEmulator
	CategoryAudio
)

// Info carries metadata about an action.
type Info struct {
	Action      Action
	Category    Category
	Debounce    bool // true if the action should trigger once per press, not continuously
	Description string
}

var infoMap = map[Action]Info{
	ButtonA:      {Action: ButtonA, Category: CategoryConsoleInput, Description: "A button"},
	ButtonB:      {Action: ButtonB, Category: CategoryConsoleInput, Description: "B button"},
	ButtonStart:  {Action: ButtonStart, Category: CategoryConsoleInput, Description: "Start button"},
	ButtonSelect: {Action: ButtonSelect, Category: CategoryConsoleInput, Description: "Select button"},
	DPadRight:    {Action: DPadRight, Category: CategoryConsoleInput, Description: "D-Pad Right"},
	DPadLeft:     {Action: DPadLeft, Category: CategoryConsoleInput, Description: "D-Pad Left"},
	DPadUp:       {Action: DPadUp, Category: CategoryConsoleInput, Description: "D-Pad Up"},
	DPadDown:     {Action: DPadDown, Category: CategoryConsoleInput, Description: "D-Pad Down"},
	ButtonR:      {Action: ButtonR, Category: CategoryConsoleInput, Description: "R shoulder button"},
	ButtonL:      {Action: ButtonL, Category: CategoryConsoleInput, Description: "L shoulder button"},

	EmulatorDebugToggle: {Action: EmulatorDebugToggle, Category: CategoryEmulator, Debounce: true, Description: "Toggle debug display"},
	EmulatorSnapshot:    {Action: EmulatorSnapshot, Category: CategoryEmulator, Debounce: true, Description: "Take snapshot"},
	EmulatorPauseToggle: {Action: EmulatorPauseToggle, Category: CategoryEmulator, Debounce: true, Description: "Toggle pause"},
	EmulatorStepFrame:   {Action: EmulatorStepFrame, Category: CategoryEmulator, Debounce: true, Description: "Step one frame"},
	EmulatorQuit:        {Action: EmulatorQuit, Category: CategoryEmulator, Debounce: true, Description: "Quit"},

	AudioToggleChannel1: {Action: AudioToggleChannel1, Category: CategoryAudio, Debounce: true, Description: "Toggle audio channel 1"},
	AudioToggleChannel2: {Action: AudioToggleChannel2, Category: CategoryAudio, Debounce: true, Description: "Toggle audio channel 2"},
	AudioToggleChannel3: {Action: AudioToggleChannel3, Category: CategoryAudio, Debounce: true, Description: "Toggle audio channel 3"},
	AudioToggleChannel4: {Action: AudioToggleChannel4, Category: CategoryAudio, Debounce: true, Description: "Toggle audio channel 4"},
	AudioSoloChannel1:   {Action: AudioSoloChannel1, Category: CategoryAudio, Debounce: true, Description: "Solo audio channel 1"},
	AudioSoloChannel2:   {Action: AudioSoloChannel2, Category: CategoryAudio, Debounce: true, Description: "Solo audio channel 2"},
	AudioSoloChannel3:   {Action: AudioSoloChannel3, Category: CategoryAudio, Debounce: true, Description: "Solo audio channel 3"},
	AudioSoloChannel4:   {Action: AudioSoloChannel4, Category: CategoryAudio, Debounce: true, Description: "Solo audio channel 4"},
}

// GetInfo returns metadata for an action, or a default for an unknown one.
func GetInfo(a Action) Info {
	if info, ok := infoMap[a]; ok {
		return info
	}
	return Info{Action: a, Category: CategoryEmulator, Description: "Unknown action"}
}
