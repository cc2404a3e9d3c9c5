// Package terminal implements a backend.Backend that renders the
// framebuffer to a tcell terminal screen as half-block characters, and
// reports keyboard input back through the backend event types.
package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/arn-dahl/gogba/gba/backend"
	"github.com/arn-dahl/gogba/gba/input"
	"github.com/arn-dahl/gogba/gba/input/action"
	"github.com/arn-dahl/gogba/gba/input/event"
	"github.com/arn-dahl/gogba/gba/video"
)

const (
	gameAreaWidth  = video.Width
	minTermWidth   = video.Width + 2
	minTermHeight  = video.Height/2 + 3
	keyTimeout = 100 * time.Millisecond
)

// Backend renders one console frame per Update call and reports input
// collected since the previous call.
type Backend struct {
	screen  tcell.Screen
	running bool

	config     backend.BackendConfig
	eventQueue []backend.InputEvent

	keyStates  map[action.Action]time.Time
	activeKeys map[action.Action]bool
}

// New creates a terminal backend. Call Init before using it.
func New() *Backend {
	return &Backend{}
}

// Init opens the terminal screen and starts signal handling.
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.eventQueue = make([]backend.InputEvent, 0)
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.screen = screen
	t.running = true

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	slog.Info("terminal backend initialized")

	go t.handleSignals()

	return nil
}

// Update polls terminal events, renders frame, and returns the input
// events collected since the previous call.
func (t *Backend) Update(frame *video.Framebuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent
	now := time.Now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	currentlyActive := make(map[action.Action]bool)
	for act, lastPressed := range t.keyStates {
		if action.GetInfo(act).Category != action.CategoryConsoleInput {
			continue
		}

		if now.Sub(lastPressed) < keyTimeout {
			currentlyActive[act] = true
			if !t.activeKeys[act] {
				events = append(events, backend.InputEvent{Action: act, Type: event.Press})
			} else {
				events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
			}
		} else {
			delete(t.keyStates, act)
		}
	}
	for act := range t.activeKeys {
		if !currentlyActive[act] {
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
	t.activeKeys = currentlyActive

	if len(t.eventQueue) > 0 {
		events = append(events, t.eventQueue...)
	}
	t.eventQueue = nil

	if !t.running {
		return events, nil
	}

	t.render(frame)
	t.screen.Show()

	return events, nil
}

// SetShowDebug toggles the debug panel rendered alongside the frame.
func (t *Backend) SetShowDebug(show bool) {
	t.config.ShowDebug = show
}

// Cleanup restores the terminal.
func (t *Backend) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	<-signals
	t.running = false
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	if act, ok := keyMapping[ev.Key()]; ok {
		t.dispatchMapped(act, now)
		return
	}
	if ev.Key() == tcell.KeyRune {
		if act, ok := runeMapping[ev.Rune()]; ok {
			t.dispatchMapped(act, now)
		}
	}
}

func (t *Backend) dispatchMapped(act action.Action, now time.Time) {
	if act == action.EmulatorQuit {
		t.running = false
	}

	if action.GetInfo(act).Category == action.CategoryConsoleInput {
		if isDPad(act) {
			delete(t.keyStates, action.DPadUp)
			delete(t.keyStates, action.DPadDown)
			delete(t.keyStates, action.DPadLeft)
			delete(t.keyStates, action.DPadRight)
		}
		t.keyStates[act] = now
		return
	}

	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

func isDPad(act action.Action) bool {
	return act == action.DPadUp || act == action.DPadDown || act == action.DPadLeft || act == action.DPadRight
}

// tcellKeyNameMap translates tcell's named keys to the key-name strings
// input.DefaultKeyMap indexes by.
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEnter:  "Enter",
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyEscape: "Escape",
	tcell.KeyF1:     "F1",
	tcell.KeyF2:     "F2",
	tcell.KeyF3:     "F3",
	tcell.KeyF4:     "F4",
	tcell.KeyF9:     "F9",
	tcell.KeyF10:    "F10",
}

var tcellRuneNameMap = map[rune]string{
	'z': "z", 'x': "x", 'a': "a", 's': "s", 'w': "w", 'k': "k",
	'p': "p", 'o': "o", 'q': "q", ' ': "Space",
	'1': "1", '2': "2", '3': "3", '4': "4",
}

func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)
	for key, name := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(name); ok {
			mapping[key] = act
		}
	}
	mapping[tcell.KeyCtrlC] = action.EmulatorQuit
	return mapping
}

func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)
	for r, name := range tcellRuneNameMap {
		if act, ok := input.GetDefaultMapping(name); ok {
			mapping[r] = act
		}
	}
	return mapping
}

var keyMapping = buildKeyMapping()
var runeMapping = buildRuneMapping()

func (t *Backend) render(frame *video.Framebuffer) {
	termWidth, termHeight := t.screen.Size()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		t.screen.Clear()
		msg := fmt.Sprintf("terminal too small, need at least %dx%d", minTermWidth, minTermHeight)
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		for i, ch := range msg {
			t.screen.SetContent(i, termHeight/2, ch, nil, style)
		}
		return
	}

	t.screen.Clear()
	t.drawFrame(frame)

	if t.config.ShowDebug && t.config.DebugProvider != nil {
		t.drawDebugPanel(gameAreaWidth+2, 1)
	}
}

func (t *Backend) drawFrame(frame *video.Framebuffer) {
	pix := frame.Bytes()
	for y := 0; y < video.Height; y += 2 {
		for x := 0; x < video.Width; x++ {
			topOff := (y*video.Width + x) * 3
			fg := tcell.NewRGBColor(int32(pix[topOff]), int32(pix[topOff+1]), int32(pix[topOff+2]))

			bg := tcell.ColorBlack
			if y+1 < video.Height {
				botOff := ((y+1)*video.Width + x) * 3
				bg = tcell.NewRGBColor(int32(pix[botOff]), int32(pix[botOff+1]), int32(pix[botOff+2]))
			}

			style := tcell.StyleDefault.Foreground(fg).Background(bg)
			t.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
}

func (t *Backend) drawDebugPanel(startX, startY int) {
	snapshot := t.config.DebugProvider.ExtractDebugData()
	if snapshot == nil {
		return
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	lines := []string{
		fmt.Sprintf("PC   %08X", snapshot.PC),
		fmt.Sprintf("CPSR %08X", snapshot.CPSR),
		fmt.Sprintf("R0-3 %08X %08X %08X %08X",
			snapshot.GeneralRegs[0], snapshot.GeneralRegs[1], snapshot.GeneralRegs[2], snapshot.GeneralRegs[3]),
	}
	for i, line := range lines {
		for j, ch := range line {
			t.screen.SetContent(startX+j, startY+i, ch, nil, style)
		}
	}
}
