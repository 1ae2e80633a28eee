package canopy

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/phanxgames/canopy/gpu"
)

// serialHeader is the size of the width and height fields.
const serialHeader = 8

// Serialize encodes the bitmap as a little-endian uint32 width, uint32
// height and width*height RGBA8 pixels, row-major with no padding. It
// returns nil once disposed.
func (b *Bitmap) Serialize() []byte {
	if b.disposed {
		return nil
	}
	return encodePixels(b.RequireMemorySurface())
}

func encodePixels(img *image.NRGBA) []byte {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	pix := gpu.PixelsOf(img)
	out := make([]byte, serialHeader+len(pix))
	binary.LittleEndian.PutUint32(out[0:4], uint32(w))
	binary.LittleEndian.PutUint32(out[4:8], uint32(h))
	copy(out[serialHeader:], pix)
	return out
}

// DeserializeBitmap creates a bitmap from data produced by Serialize.
// Trailing bytes are ignored.
func DeserializeBitmap(e *Engine, data []byte) (*Bitmap, error) {
	img, err := decodePixels(data)
	if err != nil {
		return nil, opError("deserialize bitmap", err)
	}
	b, err := newBitmap(e, img.Rect.Dx(), img.Rect.Dy())
	if err != nil {
		return nil, opError("deserialize bitmap", err)
	}
	b.tex.WritePixels(img.Pix)
	b.cache = img
	return b, nil
}

// decodePixels parses the Serialize layout into a new image.
func decodePixels(data []byte) (*image.NRGBA, error) {
	if len(data) < serialHeader {
		return nil, fmt.Errorf("%d byte header: %w", len(data), ErrInvalidData)
	}
	w := binary.LittleEndian.Uint32(data[0:4])
	h := binary.LittleEndian.Uint32(data[4:8])
	if w == 0 || h == 0 || w > 1<<30 || h > 1<<30 {
		return nil, fmt.Errorf("size %dx%d: %w", w, h, ErrInvalidData)
	}
	need := uint64(serialHeader) + uint64(w)*uint64(h)*4
	if uint64(len(data)) < need {
		return nil, fmt.Errorf("need %d bytes, have %d: %w", need, len(data), ErrInvalidData)
	}
	img := image.NewNRGBA(image.Rect(0, 0, int(w), int(h)))
	copy(img.Pix, data[serialHeader:need])
	return img, nil
}
