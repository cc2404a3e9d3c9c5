//go:build sdl2

// Package sdl2 implements a backend.Backend on top of go-sdl2: windowed
// framebuffer rendering plus an audio sink fed from an audio.Provider.
// Building it requires the SDL2 development libraries; default builds
// skip it via the sdl2 build tag.
package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/arn-dahl/gogba/gba/backend"
	"github.com/arn-dahl/gogba/gba/input/action"
	"github.com/arn-dahl/gogba/gba/input/event"
	"github.com/arn-dahl/gogba/gba/video"
)

const (
	bytesPerPixel  = 4
	defaultScale   = 3
	audioSampleRate = 48000
	audioBufferSamples = 1024
	targetQueuedBytes = 2048 * bytesPerPixel
)

// Backend renders the framebuffer into an SDL2 window and, when an
// AudioProvider was configured, queues its samples to an SDL2 audio
// device every Update.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool

	config        backend.BackendConfig
	audioProvider backend.AudioProvider
	audioDevice   sdl.AudioDeviceID

	pixelBuffer []byte
	eventBuffer []backend.InputEvent
}

// New creates an SDL2 backend. Call Init before using it.
func New() *Backend {
	return &Backend{}
}

// Init opens a window, renderer, and (if configured) an audio device.
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config
	s.audioProvider = config.AudioProvider

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	scale := config.Scale
	if scale <= 0 {
		scale = defaultScale
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.Width*scale),
		int32(video.Height*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.Width,
		video.Height,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture

	s.pixelBuffer = make([]byte, video.Width*video.Height*bytesPerPixel)
	s.eventBuffer = make([]backend.InputEvent, 0, 10)
	s.running = true

	if s.audioProvider != nil {
		if err := s.initAudio(); err != nil {
			slog.Warn("failed to initialize audio", "error", err)
		}
	}

	slog.Info("sdl2 backend initialized")
	return nil
}

// Update renders frame and returns input events collected since the
// previous call.
func (s *Backend) Update(frame *video.Framebuffer) ([]backend.InputEvent, error) {
	s.eventBuffer = s.eventBuffer[:0]

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		if inputEvents := s.handleEvent(ev); inputEvents != nil {
			s.eventBuffer = append(s.eventBuffer, inputEvents...)
		}
	}

	if !s.running {
		return s.eventBuffer, nil
	}

	s.renderFrame(frame)

	if s.audioDevice != 0 {
		s.queueAudioSamples()
	}

	return s.eventBuffer, nil
}

// Cleanup closes the window, renderer, and audio device.
func (s *Backend) Cleanup() error {
	if s.audioDevice != 0 {
		sdl.CloseAudioDevice(s.audioDevice)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

func (s *Backend) handleEvent(evt sdl.Event) []backend.InputEvent {
	switch e := evt.(type) {
	case *sdl.QuitEvent:
		s.running = false
		return []backend.InputEvent{{Action: action.EmulatorQuit, Type: event.Press}}
	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			return s.handleKeyDown(e.Keysym.Sym, e.Repeat)
		} else if e.Type == sdl.KEYUP {
			return s.handleKeyUp(e.Keysym.Sym)
		}
	}
	return nil
}

// keyMapping maps SDL2 keycodes directly to actions; default_keys.go's
// string-keyed map targets terminal key names, not SDL2 keycodes.
var keyMapping = map[sdl.Keycode]action.Action{
	sdl.K_RETURN: action.ButtonStart,
	sdl.K_z:      action.ButtonA,
	sdl.K_x:      action.ButtonB,
	sdl.K_LSHIFT: action.ButtonSelect,
	sdl.K_UP:     action.DPadUp,
	sdl.K_DOWN:   action.DPadDown,
	sdl.K_LEFT:   action.DPadLeft,
	sdl.K_RIGHT:  action.DPadRight,
	sdl.K_a:      action.ButtonL,
	sdl.K_s:      action.ButtonR,

	sdl.K_ESCAPE: action.EmulatorQuit,
	sdl.K_SPACE:  action.EmulatorPauseToggle,
	sdl.K_o:      action.EmulatorStepFrame,
	sdl.K_F9:     action.EmulatorSnapshot,
	sdl.K_F10:    action.EmulatorDebugToggle,

	sdl.K_F1: action.AudioToggleChannel1,
	sdl.K_F2: action.AudioToggleChannel2,
	sdl.K_F3: action.AudioToggleChannel3,
	sdl.K_F4: action.AudioToggleChannel4,
}

func (s *Backend) handleKeyDown(key sdl.Keycode, repeat uint8) []backend.InputEvent {
	act, ok := keyMapping[key]
	if !ok {
		return nil
	}
	if repeat == 0 {
		return []backend.InputEvent{{Action: act, Type: event.Press}}
	}
	return []backend.InputEvent{{Action: act, Type: event.Hold}}
}

func (s *Backend) handleKeyUp(key sdl.Keycode) []backend.InputEvent {
	act, ok := keyMapping[key]
	if !ok {
		return nil
	}
	switch act {
	case action.ButtonA, action.ButtonB, action.ButtonStart, action.ButtonSelect,
		action.DPadUp, action.DPadDown, action.DPadLeft, action.DPadRight,
		action.ButtonL, action.ButtonR:
		return []backend.InputEvent{{Action: act, Type: event.Release}}
	}
	return nil
}

func (s *Backend) renderFrame(frame *video.Framebuffer) {
	pix := frame.Bytes()
	for i := 0; i < video.Width*video.Height; i++ {
		src := i * 3
		dst := i * bytesPerPixel
		// ABGR byte order for little-endian RGBA8888.
		s.pixelBuffer[dst] = 0xFF
		s.pixelBuffer[dst+1] = pix[src+2]
		s.pixelBuffer[dst+2] = pix[src+1]
		s.pixelBuffer[dst+3] = pix[src]
	}

	s.texture.Update(nil, unsafe.Pointer(&s.pixelBuffer[0]), video.Width*bytesPerPixel)

	s.renderer.SetDrawColor(0, 0, 0, 0xFF)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}

func (s *Backend) queueAudioSamples() {
	queuedBytes := sdl.GetQueuedAudioSize(s.audioDevice)
	if queuedBytes >= targetQueuedBytes {
		return
	}

	samplesToGet := int((targetQueuedBytes - queuedBytes) / 4)
	samples := s.audioProvider.GetSamples(samplesToGet)
	if len(samples) == 0 {
		return
	}

	byteLen := len(samples) * 4
	raw := (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:byteLen:byteLen]
	sdl.QueueAudio(s.audioDevice, raw)
}

func (s *Backend) initAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     audioSampleRate,
		Format:   sdl.AUDIO_F32LSB,
		Channels: 2,
		Samples:  audioBufferSamples,
	}

	obtained := &sdl.AudioSpec{}
	device, err := sdl.OpenAudioDevice("", false, spec, obtained, 0)
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}

	s.audioDevice = device
	sdl.PauseAudioDevice(s.audioDevice, false)

	slog.Info("audio initialized", "freq", obtained.Freq, "samples", obtained.Samples)
	return nil
}
