package gpu

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/math/f64"
)

func vecNear(t *testing.T, want, got Vec4, msg string) {
	t.Helper()
	for i := range want {
		if d := want[i] - got[i]; d < -1e-4 || d > 1e-4 {
			t.Errorf("%s: got %v, want %v", msg, got, want)
			return
		}
	}
}

func TestApplyTone(t *testing.T) {
	tests := []struct {
		name string
		c    Vec4
		tone Vec4
		want Vec4
	}{
		{"none", Vec4{0.2, 0.4, 0.6, 1}, Vec4{}, Vec4{0.2, 0.4, 0.6, 1}},
		{"offset", Vec4{0.2, 0.4, 0.6, 1}, Vec4{0.1, -0.1, 0, 0}, Vec4{0.3, 0.3, 0.6, 1}},
		{"clamped", Vec4{1, 0, 0.5, 0.5}, Vec4{1, -1, 0, 0}, Vec4{1, 0, 0.5, 0.5}},
		{"full gray", Vec4{1, 0, 0, 1}, Vec4{0, 0, 0, 1}, Vec4{0.299, 0.299, 0.299, 1}},
		{"half gray", Vec4{0, 1, 0, 1}, Vec4{0, 0, 0, 0.5}, Vec4{0.2935, 0.7935, 0.2935, 1}},
	}
	for _, tt := range tests {
		vecNear(t, tt.want, ApplyTone(tt.c, tt.tone), tt.name)
	}
}

func TestApplyColor(t *testing.T) {
	c := Vec4{1, 0, 0, 0.5}
	vecNear(t, c, ApplyColor(c, Vec4{0, 0, 1, 0}), "zero strength")
	vecNear(t, Vec4{0, 0, 1, 0.5}, ApplyColor(c, Vec4{0, 0, 1, 1}), "full strength")
	vecNear(t, Vec4{0.5, 0, 0.5, 0.5}, ApplyColor(c, Vec4{0, 0, 1, 0.5}), "half strength")
}

func TestShadeSprite(t *testing.T) {
	in := &Instance{
		Opacity:     0.5,
		Tone:        Vec4{-1, 0, 0, 0},
		Color:       Vec4{0, 1, 0, 1},
		Bush:        true,
		BushDepth:   4,
		BushOpacity: 0.5,
	}
	white := Vec4{1, 1, 1, 1}
	vecNear(t, Vec4{0, 1, 0, 0.5}, ShadeSprite(white, 3.5, in), "above the bush")
	vecNear(t, Vec4{0, 1, 0, 0.25}, ShadeSprite(white, 4.5, in), "inside the bush")

	in.Bush = false
	vecNear(t, Vec4{0, 1, 0, 0.5}, ShadeSprite(white, 4.5, in), "bush disabled")
}

func TestShadeFlat(t *testing.T) {
	e := &Effect{Tone: Vec4{0, 0, 0, 1}, Color: Vec4{1, 0, 0, 0.5}}
	got := ShadeFlat(Vec4{0, 0, 1, 1}, e)
	vecNear(t, Vec4{0.557, 0.057, 0.057, 1}, got, "tone then color")
}

func TestMixTransition(t *testing.T) {
	frozen := Vec4{1, 0, 0, 1}
	current := Vec4{0, 0, 1, 1}
	vecNear(t, frozen, MixTransition(frozen, current, 0), "start")
	vecNear(t, current, MixTransition(frozen, current, 1), "end")
	vecNear(t, Vec4{0.25, 0, 0.75, 1}, MixTransition(frozen, current, 0.75), "three quarters")
}

func TestVagueAlpha(t *testing.T) {
	tests := []struct {
		m, progress, vague float32
		want               float32
	}{
		{0.2, 0.5, 0.25, 0},
		{0.9, 0.5, 0.25, 1},
		{0.625, 0.5, 0.25, 0.5},
		{0.6, 0.5, 0, 1},
		{0.5, 0.5, 0, 0},
	}
	for _, tt := range tests {
		if got := VagueAlpha(tt.m, tt.progress, tt.vague); got != tt.want {
			t.Errorf("VagueAlpha(%v, %v, %v) = %v, want %v", tt.m, tt.progress, tt.vague, got, tt.want)
		}
	}
}

func TestNewQuad(t *testing.T) {
	q := NewQuad(RectF{1, 2, 3, 4}, RectF{5, 6, 7, 8}, Vec4{0.1, 0.2, 0.3, 0.4})
	wantXY := [4][2]float32{{1, 2}, {4, 2}, {4, 6}, {1, 6}}
	wantUV := [4][2]float32{{5, 6}, {12, 6}, {12, 14}, {5, 14}}
	for i, v := range q {
		assert.Equal(t, wantXY[i], [2]float32{v.X, v.Y}, "vertex %d position", i)
		assert.Equal(t, wantUV[i], [2]float32{v.U, v.V}, "vertex %d texcoord", i)
		assert.Equal(t, float32(0.4), v.A)
	}
}

func TestWorldTransforms(t *testing.T) {
	assert.Equal(t, Identity, WorldOrIdentity(f64.Aff3{}))
	w := Translate(3, -2)
	assert.Equal(t, w, WorldOrIdentity(w))
	x, y := Apply(w, 1, 1)
	assert.Equal(t, 4.0, x)
	assert.Equal(t, -1.0, y)
}

func TestPixelsOf(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, color.NRGBA{1, 2, 3, 4})
	assert.Len(t, PixelsOf(img), 64)

	sub := img.SubImage(image.Rect(1, 1, 3, 2)).(*image.NRGBA)
	px := PixelsOf(sub)
	assert.Equal(t, []byte{1, 2, 3, 4, 0, 0, 0, 0}, px)
}

type nopFilter struct{}

func (nopFilter) filterName() string { return "nop" }

func TestFilterImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 255, 255
	}

	assert.Same(t, img, FilterImage(img, nopFilter{}))
	assert.Same(t, img, FilterImage(img, RadialBlurFilter{Angle: 10, Division: 1}))
	assert.Same(t, img, FilterImage(img, RadialBlurFilter{Angle: 0, Division: 4}))

	hue := FilterImage(img, HueFilter{Hue: 120}).NRGBAAt(1, 1)
	assert.InDelta(t, 0, int(hue.R), 1)
	assert.InDelta(t, 255, int(hue.G), 1)

	blurred := FilterImage(img, BlurFilter{})
	assert.Equal(t, img.Bounds(), blurred.Bounds())
	assert.InDelta(t, 255, int(blurred.NRGBAAt(1, 1).R), 1)
}

func TestFilterName(t *testing.T) {
	tests := []struct {
		f    Filter
		want string
	}{
		{nil, ""},
		{HueFilter{}, "hue"},
		{BlurFilter{}, "blur"},
		{RadialBlurFilter{}, "radial_blur"},
	}
	for _, tt := range tests {
		if got := FilterName(tt.f); got != tt.want {
			t.Errorf("FilterName(%T) = %q, want %q", tt.f, got, tt.want)
		}
	}
}
