package canopy

import (
	"time"
)

// FrameLimiter paces logical frames to a target rate.
type FrameLimiter struct {
	period    time.Duration
	next      time.Time
	allowSkip bool

	now   func() time.Time
	sleep func(time.Duration)

	// measured rate over half-second windows
	windowStart  time.Time
	windowFrames int
	actual       float64
}

// NewFrameLimiter returns a limiter running at rate frames per second.
func NewFrameLimiter(rate int, allowSkip bool) *FrameLimiter {
	l := &FrameLimiter{allowSkip: allowSkip, now: time.Now, sleep: time.Sleep}
	l.SetFrameRate(rate)
	return l
}

// SetClock replaces the time source and the sleep function.
func (l *FrameLimiter) SetClock(now func() time.Time, sleep func(time.Duration)) {
	l.now, l.sleep = now, sleep
	l.Reset()
}

// SetFrameRate changes the target rate. Non-positive rates are ignored.
func (l *FrameLimiter) SetFrameRate(rate int) {
	if rate <= 0 {
		return
	}
	l.period = time.Second / time.Duration(rate)
}

// Period returns the duration of one frame.
func (l *FrameLimiter) Period() time.Duration { return l.period }

// Delay sleeps until the next frame is due. Without frame skipping a frame
// that ran late restarts the schedule from now.
func (l *FrameLimiter) Delay() {
	now := l.now()
	l.measure(now)
	if l.next.IsZero() {
		l.next = now
	}
	l.next = l.next.Add(l.period)
	wait := l.next.Sub(now)
	if wait > 0 {
		l.sleep(wait)
		return
	}
	if !l.allowSkip && -wait > l.period {
		l.next = now
	}
}

// RequireFrameSkip reports whether the schedule is more than one frame
// behind and skipping is allowed.
func (l *FrameLimiter) RequireFrameSkip() bool {
	if !l.allowSkip || l.next.IsZero() {
		return false
	}
	return l.now().Sub(l.next) > l.period
}

// Reset restarts the schedule at the next Delay.
func (l *FrameLimiter) Reset() {
	l.next = time.Time{}
}

// ActualFPS returns the measured frame rate of the last complete
// half-second window.
func (l *FrameLimiter) ActualFPS() float64 { return l.actual }

func (l *FrameLimiter) measure(now time.Time) {
	if l.windowStart.IsZero() {
		l.windowStart = now
		return
	}
	l.windowFrames++
	if el := now.Sub(l.windowStart); el >= 500*time.Millisecond {
		l.actual = float64(l.windowFrames) / el.Seconds()
		l.windowStart = now
		l.windowFrames = 0
	}
}
