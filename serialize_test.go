package canopy

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeLayout(t *testing.T) {
	e, _ := newTestEngine(t)
	b, _ := NewBitmap(e, 3, 2)
	b.SetPixel(2, 1, RGBA8(10, 20, 30, 40))

	data := b.Serialize()
	require.Len(t, data, 8+3*2*4)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[4:8]))
	off := 8 + (1*3+2)*4
	assert.Equal(t, []byte{10, 20, 30, 40}, data[off:off+4])
}

func TestSerializeRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t)
	b, _ := NewBitmap(e, 5, 4)
	b.GradientFillRect(b.Rect(), RGBA8(255, 0, 0, 255), RGBA8(0, 0, 255, 128), true)
	data := b.Serialize()

	got, err := DeserializeBitmap(e, append(data, 0xde, 0xad))
	require.NoError(t, err)
	assert.Equal(t, 5, got.Width())
	assert.Equal(t, 4, got.Height())
	assert.True(t, got.IsSurfaceCachePresent(), "the decoded pixels seed the cache")
	assert.Equal(t, data, got.Serialize())

	// the texture holds the same pixels as the cache
	got.InvalidateSurfaceCache()
	assert.Equal(t, data, got.Serialize())
}

func TestDeserializeInvalid(t *testing.T) {
	e, _ := newTestEngine(t)
	header := func(w, h uint32) []byte {
		out := make([]byte, 8)
		binary.LittleEndian.PutUint32(out[0:4], w)
		binary.LittleEndian.PutUint32(out[4:8], h)
		return out
	}
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", []byte{1, 0, 0}},
		{"zero width", header(0, 4)},
		{"zero height", header(4, 0)},
		{"huge", header(1<<31, 1<<31)},
		{"truncated pixels", append(header(2, 2), make([]byte, 15)...)},
	}
	for _, tt := range tests {
		_, err := DeserializeBitmap(e, tt.data)
		assert.ErrorIs(t, err, ErrInvalidData, tt.name)
	}

	_, err := DeserializeBitmap(e, append(header(9000, 1), make([]byte, 9000*4)...))
	assert.ErrorIs(t, err, ErrTooLarge)
}
