package canopy

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidSurface(t *testing.T, e *Engine, w, h int, c color.NRGBA) *Surface {
	t.Helper()
	s, err := NewSurface(e, w, h)
	require.NoError(t, err)
	require.NoError(t, s.FillRect(s.Rect(), colorFromNRGBA(c)))
	return s
}

func surfacePixel(t *testing.T, s *Surface, x, y int) color.NRGBA {
	t.Helper()
	c, err := s.GetPixel(x, y)
	require.NoError(t, err)
	return c.NRGBA()
}

func TestNewSurfaceSize(t *testing.T) {
	e, _ := newTestEngineConfig(t, Config{Width: 16, Height: 16, MaxTextureSize: 32})
	tests := []struct {
		w, h int
		want error
	}{
		{0, 4, ErrInvalidSize},
		{4, -1, ErrInvalidSize},
		{64, 4, nil},
	}
	for _, tt := range tests {
		s, err := NewSurface(e, tt.w, tt.h)
		if tt.want != nil {
			assert.ErrorIs(t, err, tt.want, "%dx%d", tt.w, tt.h)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, Rect{0, 0, tt.w, tt.h}, s.Rect(), "surfaces are not bound by the texture limit")
	}
}

func TestSurfacePixels(t *testing.T) {
	e, _ := newTestEngine(t)
	s, err := NewSurface(e, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{}, surfacePixel(t, s, 1, 1))

	require.NoError(t, s.SetPixel(1, 1, RGBA8(255, 0, 0, 255)))
	require.NoError(t, s.SetPixel(9, 9, RGBA8(255, 0, 0, 255)))
	assert.Equal(t, red, surfacePixel(t, s, 1, 1))
	assert.Equal(t, color.NRGBA{}, surfacePixel(t, s, -1, 0))

	require.NoError(t, s.FillRect(Rect{2, 0, 2, 3}, RGBA8(0, 0, 255, 255)))
	assert.Equal(t, blue, surfacePixel(t, s, 3, 2))
	require.NoError(t, s.ClearRect(Rect{3, 0, 1, 3}))
	assert.Equal(t, color.NRGBA{}, surfacePixel(t, s, 3, 2))
	assert.Equal(t, blue, surfacePixel(t, s, 2, 2))

	require.NoError(t, s.Clear())
	assert.Equal(t, color.NRGBA{}, surfacePixel(t, s, 1, 1))
}

func TestSurfaceBlt(t *testing.T) {
	e, _ := newTestEngine(t)
	tests := []struct {
		name    string
		opacity int
		want    color.NRGBA
	}{
		{"opaque", 255, blue},
		{"half", 128, color.NRGBA{127, 0, 128, 255}},
		{"invisible", 0, red},
	}
	for _, tt := range tests {
		dst := solidSurface(t, e, 4, 4, red)
		src := solidSurface(t, e, 2, 2, blue)
		require.NoError(t, dst.Blt(1, 1, src, src.Rect(), tt.opacity))
		got := surfacePixel(t, dst, 1, 1)
		if absInt(int(got.R)-int(tt.want.R)) > 1 || absInt(int(got.B)-int(tt.want.B)) > 1 {
			t.Errorf("%s: pixel = %v, want %v", tt.name, got, tt.want)
		}
		assert.Equal(t, red, surfacePixel(t, dst, 0, 0), tt.name)
		assert.Equal(t, red, surfacePixel(t, dst, 3, 3), tt.name)
	}
}

func TestSurfaceStretchBlt(t *testing.T) {
	e, _ := newTestEngine(t)
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, red)
	img.SetNRGBA(1, 0, green)
	src := SurfaceFromImage(e, img)
	img.SetNRGBA(0, 0, blue)
	assert.Equal(t, red, surfacePixel(t, src, 0, 0), "the image is copied")

	dst, err := NewSurface(e, 8, 4)
	require.NoError(t, err)
	require.NoError(t, dst.StretchBlt(Rect{0, 0, 8, 4}, src, src.Rect(), 255))
	assert.Equal(t, red, surfacePixel(t, dst, 3, 3))
	assert.Equal(t, green, surfacePixel(t, dst, 4, 0))
}

func TestSurfaceSelfBlt(t *testing.T) {
	e, _ := newTestEngine(t)
	s, err := NewSurface(e, 4, 1)
	require.NoError(t, err)
	require.NoError(t, s.SetPixel(0, 0, RGBA8(255, 0, 0, 255)))
	require.NoError(t, s.SetPixel(1, 0, RGBA8(0, 0, 255, 255)))
	require.NoError(t, s.Blt(1, 0, s, Rect{0, 0, 2, 1}, 255))
	assert.Equal(t, red, surfacePixel(t, s, 1, 0))
	assert.Equal(t, blue, surfacePixel(t, s, 2, 0))
}

func TestSurfaceText(t *testing.T) {
	e, _ := newTestEngine(t)
	s, err := NewSurface(e, 80, 32)
	require.NoError(t, err)
	s.SetFont(Font{Size: 20, Color: ColorWhite})

	size, err := s.TextSize("Hi")
	require.NoError(t, err)
	assert.Positive(t, size.Width)

	require.NoError(t, s.DrawText(s.Rect(), "Hi", AlignLeft))
	img, err := s.Image()
	require.NoError(t, err)
	lit := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			lit++
		}
	}
	assert.Positive(t, lit)
	require.NoError(t, s.DrawText(s.Rect(), "", AlignLeft))
}

func TestBitmapSurfaceRoundTrip(t *testing.T) {
	e, _ := newTestEngineConfig(t, Config{Width: 16, Height: 16, MaxTextureSize: 32})
	s := solidSurface(t, e, 3, 2, green)

	b, err := BitmapFromSurface(e, s)
	require.NoError(t, err)
	assert.Equal(t, green, texturePixel(b, 2, 1))

	back, err := b.Surface()
	require.NoError(t, err)
	assert.Equal(t, green, surfacePixel(t, back, 0, 0))

	_, err = BitmapFromSurface(e, solidSurface(t, e, 40, 2, green))
	assert.ErrorIs(t, err, ErrTooLarge)

	s.Dispose()
	_, err = BitmapFromSurface(e, s)
	assert.ErrorIs(t, err, ErrDisposed)
}

func TestSurfaceSerialize(t *testing.T) {
	e, _ := newTestEngine(t)
	b := solidBitmap(t, e, 3, 2, red)

	s, err := DeserializeSurface(e, b.Serialize())
	require.NoError(t, err)
	assert.Equal(t, Rect{0, 0, 3, 2}, s.Rect())
	assert.Equal(t, red, surfacePixel(t, s, 2, 1))
	assert.Equal(t, b.Serialize(), s.Serialize())

	_, err = DeserializeSurface(e, []byte{1, 2})
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestSurfaceSavePNG(t *testing.T) {
	e, _ := newTestEngine(t)
	s := solidSurface(t, e, 3, 2, blue)
	path := filepath.Join(t.TempDir(), "blue.png")
	require.NoError(t, s.SavePNG(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())

	s.Dispose()
	assert.True(t, s.IsDisposed())
	assert.Zero(t, s.Width())
	assert.ErrorIs(t, s.SavePNG(path), ErrDisposed)
	assert.Nil(t, s.Serialize())
}
