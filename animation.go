package canopy

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"io"

	"github.com/h2non/filetype"
	"golang.org/x/image/draw"
)

// ImageAnimation is a decoded multi-frame image. Every frame is a full
// canvas-sized picture with earlier frames and disposal already applied.
// Still images load as a single frame with no delay.
type ImageAnimation struct {
	e        *Engine
	w, h     int
	frames   []*image.NRGBA
	delays   []int
	disposed bool
}

// LoadImageAnimation decodes an animation from the engine's asset
// filesystem.
func LoadImageAnimation(e *Engine, path string) (*ImageAnimation, error) {
	data, err := e.loader.read(path)
	if err != nil {
		return nil, opError("load image animation", err)
	}
	a, err := decodeAnimation(e, data)
	if err != nil {
		return nil, opError("load image animation "+path, err)
	}
	return a, nil
}

// DecodeImageAnimation decodes an animation from r.
func DecodeImageAnimation(e *Engine, r io.Reader) (*ImageAnimation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, opError("decode image animation", err)
	}
	a, err := decodeAnimation(e, data)
	if err != nil {
		return nil, opError("decode image animation", err)
	}
	return a, nil
}

func decodeAnimation(e *Engine, data []byte) (*ImageAnimation, error) {
	if !filetype.Is(data, "gif") {
		img, err := decodeImage(data)
		if err != nil {
			return nil, err
		}
		return &ImageAnimation{e: e, w: img.Rect.Dx(), h: img.Rect.Dy(), frames: []*image.NRGBA{img}, delays: []int{0}}, nil
	}
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode gif: %v: %w", err, ErrInvalidData)
	}
	w, h := g.Config.Width, g.Config.Height
	if w <= 0 || h <= 0 {
		if len(g.Image) == 0 {
			return nil, fmt.Errorf("gif without frames: %w", ErrInvalidData)
		}
		w, h = g.Image[0].Rect.Max.X, g.Image[0].Rect.Max.Y
	}
	a := &ImageAnimation{e: e, w: w, h: h}
	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, frame := range g.Image {
		var saved *image.NRGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = cloneNRGBA(canvas)
		}
		draw.Draw(canvas, frame.Rect, frame, frame.Rect.Min, draw.Over)
		a.frames = append(a.frames, cloneNRGBA(canvas))
		delay := 0
		if i < len(g.Delay) {
			delay = g.Delay[i] * 10
		}
		a.delays = append(a.delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Rect, image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = saved
		}
	}
	Logger().Debug("image animation decoded", "width", w, "height", h, "frames", len(a.frames))
	return a, nil
}

// Width returns the canvas width, or 0 once disposed.
func (a *ImageAnimation) Width() int {
	if a.disposed {
		return 0
	}
	return a.w
}

// Height returns the canvas height, or 0 once disposed.
func (a *ImageAnimation) Height() int {
	if a.disposed {
		return 0
	}
	return a.h
}

// FrameCount returns the number of frames.
func (a *ImageAnimation) FrameCount() int { return len(a.frames) }

// Frames returns a new surface per frame.
func (a *ImageAnimation) Frames() ([]*Surface, error) {
	if a.disposed {
		return nil, opError("image animation frames", ErrDisposed)
	}
	out := make([]*Surface, len(a.frames))
	for i, f := range a.frames {
		out[i] = newSurface(a.e, cloneNRGBA(f))
	}
	return out, nil
}

// Delays returns the display time of each frame in milliseconds.
func (a *ImageAnimation) Delays() []int {
	if a.disposed {
		return nil
	}
	return append([]int(nil), a.delays...)
}

// IsDisposed reports whether Dispose has been called.
func (a *ImageAnimation) IsDisposed() bool { return a == nil || a.disposed }

// Dispose releases the frames.
func (a *ImageAnimation) Dispose() {
	a.frames, a.delays = nil, nil
	a.disposed = true
}
