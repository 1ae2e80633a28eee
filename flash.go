package canopy

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// FlashController drives the flash effect of sprites, viewports and
// tilemaps. A flash lasts a number of Update ticks during which the flash
// color's alpha decays linearly to zero. A flash started without a color
// hides its owner instead; that state is reported by IsInvalid.
type FlashController struct {
	color    Color
	alpha    float64
	duration int
	count    int
	invalid  bool
	fade     *gween.Tween
}

// Setup starts a flash of the given length in frames. A nil color starts a
// hiding flash. Durations <= 0 are ignored.
func (f *FlashController) Setup(c *Color, duration int) {
	if duration <= 0 {
		return
	}
	f.duration = duration
	f.count = 0
	f.invalid = c == nil
	f.color = Color{}
	if c != nil {
		f.color = *c
	}
	f.alpha = f.color.A
	f.fade = gween.New(float32(f.alpha), 0, float32(duration), ease.Linear)
}

// Update advances the flash by one tick.
func (f *FlashController) Update() {
	if f.duration == 0 {
		return
	}
	f.count++
	if f.count > f.duration {
		f.duration = 0
		f.invalid = false
		f.fade = nil
		return
	}
	a, _ := f.fade.Set(float32(f.count))
	f.color.A = float64(a)
}

// IsFlashing reports whether a flash is in progress.
func (f *FlashController) IsFlashing() bool { return f.duration > 0 }

// IsInvalid reports whether the current flash hides its owner.
func (f *FlashController) IsInvalid() bool { return f.invalid }

// Color returns the current flash color.
func (f *FlashController) Color() Color { return f.color }

// composite picks the flash color over base when a flash is running and its
// alpha exceeds base's.
func (f *FlashController) composite(base Color) Color {
	if f.IsFlashing() && f.color.A > base.A {
		return f.color
	}
	return base
}
