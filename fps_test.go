package canopy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/phanxgames/canopy/gpu"
)

func TestFrameLimiterPeriod(t *testing.T) {
	tests := []struct {
		rate int
		want time.Duration
	}{
		{60, time.Second / 60},
		{40, 25 * time.Millisecond},
		{1, time.Second},
	}
	for _, tt := range tests {
		l := NewFrameLimiter(tt.rate, false)
		if got := l.Period(); got != tt.want {
			t.Errorf("NewFrameLimiter(%d).Period() = %v, want %v", tt.rate, got, tt.want)
		}
	}

	l := NewFrameLimiter(50, false)
	l.SetFrameRate(0)
	l.SetFrameRate(-3)
	assert.Equal(t, 20*time.Millisecond, l.Period(), "non-positive rates are ignored")
}

func TestFrameLimiterSleepsOnePeriod(t *testing.T) {
	clk := newFakeClock()
	l := NewFrameLimiter(50, false)
	l.SetClock(clk.Now, clk.Sleep)
	for i := 0; i < 3; i++ {
		l.Delay()
	}
	assert.Equal(t, 3, clk.sleeps)
	assert.Equal(t, 60*time.Millisecond, clk.slept)
}

func TestFrameLimiterAbsorbsWork(t *testing.T) {
	clk := newFakeClock()
	l := NewFrameLimiter(50, false)
	l.SetClock(clk.Now, clk.Sleep)
	l.Delay()
	clk.now = clk.now.Add(15 * time.Millisecond) // frame work
	l.Delay()
	assert.Equal(t, 25*time.Millisecond, clk.slept, "only the rest of the period is slept")
}

func TestFrameLimiterLateFrameRestarts(t *testing.T) {
	clk := newFakeClock()
	l := NewFrameLimiter(50, false)
	l.SetClock(clk.Now, clk.Sleep)
	l.Delay()
	clk.now = clk.now.Add(200 * time.Millisecond)
	l.Delay()
	assert.Equal(t, 1, clk.sleeps, "a late frame does not sleep")
	assert.False(t, l.RequireFrameSkip(), "skipping is disabled")

	l.Delay()
	assert.Equal(t, 2, clk.sleeps)
	assert.Equal(t, 40*time.Millisecond, clk.slept, "the schedule restarted instead of catching up")
}

func TestFrameLimiterFrameSkip(t *testing.T) {
	clk := newFakeClock()
	l := NewFrameLimiter(50, true)
	l.SetClock(clk.Now, clk.Sleep)
	assert.False(t, l.RequireFrameSkip(), "nothing scheduled yet")

	l.Delay()
	clk.now = clk.now.Add(15 * time.Millisecond)
	assert.False(t, l.RequireFrameSkip())
	clk.now = clk.now.Add(60 * time.Millisecond)
	assert.True(t, l.RequireFrameSkip())

	l.Reset()
	assert.False(t, l.RequireFrameSkip())
}

func TestFrameLimiterActualFPS(t *testing.T) {
	clk := newFakeClock()
	l := NewFrameLimiter(50, false)
	l.SetClock(clk.Now, clk.Sleep)
	assert.Zero(t, l.ActualFPS())
	for i := 0; i < 26; i++ {
		l.Delay()
	}
	assert.InDelta(t, 50, l.ActualFPS(), 0.01)
}

func TestScreenFrameSkip(t *testing.T) {
	e, rec := newTestEngineConfig(t, Config{Width: 16, Height: 16, AllowFrameSkip: true})
	clk := newFakeClock()
	e.Screen().Limiter().SetClock(clk.Now, clk.Sleep)

	e.Screen().Update()
	clk.now = clk.now.Add(time.Second)
	rec.Reset()
	e.Screen().Update()
	assert.Equal(t, 0, rec.Count(gpu.CallDrawQuads), "a skipped frame renders nothing")
	assert.Equal(t, 2, e.Screen().FrameCount())

	rec.Reset()
	e.Screen().Update()
	assert.NotZero(t, rec.Count(gpu.CallDrawQuads))
}
