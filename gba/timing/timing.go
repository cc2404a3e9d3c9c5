// Package timing holds the fixed cycle-rate constants shared by the
// compositor, mixer and driver loop, plus the pacing helpers a driver uses
// to throttle a cooperative step loop to a target frame rate.
package timing

import (
	"log/slog"
	"time"
)

// Core clock constants. A frame is 280,896 cycles split into 228 scanline
// spans (section 4.3); CPUFrequency is the processor's fixed clock rate,
// from which TargetFPS and FrameDuration are derived.
const (
	CyclesPerFrame = 280896
	CPUFrequency   = 1 << 24 // 16,777,216 Hz
)

// TargetFPS calculates the exact frame rate implied by CPUFrequency and
// CyclesPerFrame.
func TargetFPS() float64 {
	return float64(CPUFrequency) / float64(CyclesPerFrame)
}

// FrameDuration returns the target wall-clock duration of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}

// Limiter controls frame rate timing for the driver loop.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame. Returns
	// immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless runs).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// TickerLimiter uses time.Ticker for simple, consistent frame timing.
type TickerLimiter struct {
	ticker *time.Ticker
	ch     <-chan time.Time
}

func NewTickerLimiter() *TickerLimiter {
	ticker := time.NewTicker(FrameDuration())
	return &TickerLimiter{ticker: ticker, ch: ticker.C}
}

func (t *TickerLimiter) WaitForNextFrame() { <-t.ch }

func (t *TickerLimiter) Reset() { t.ticker.Reset(FrameDuration()) }

func (t *TickerLimiter) Stop() { t.ticker.Stop() }

// AdaptiveLimiter uses precise timing with drift compensation: sleep for
// efficiency, busy-wait the last couple milliseconds for accuracy.
type AdaptiveLimiter struct {
	targetFrameTime time.Duration
	nextFrameTime   time.Time
	frameCounter    int64
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	return &AdaptiveLimiter{
		targetFrameTime: FrameDuration(),
		nextFrameTime:   time.Now(),
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := time.Now()
	sleepTime := a.nextFrameTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime < 2*time.Millisecond {
			for time.Now().Before(a.nextFrameTime) {
			}
		} else {
			time.Sleep(sleepTime - time.Millisecond)
			for time.Now().Before(a.nextFrameTime) {
			}
		}
	} else if sleepTime < -5*time.Millisecond {
		a.nextFrameTime = now
	}

	a.nextFrameTime = a.nextFrameTime.Add(a.targetFrameTime)
	a.frameCounter++

	if a.frameCounter%60 == 0 {
		drift := time.Now().Sub(a.nextFrameTime)
		if drift.Abs() > 10*time.Millisecond {
			a.nextFrameTime = a.nextFrameTime.Add(drift / 10)
			slog.Debug("frame timing drift correction", "drift_ms", drift.Milliseconds())
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.nextFrameTime = time.Now()
	a.frameCounter = 0
}
