package imaging

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		crop         *Rect
		aspect       float64
		wantW, wantH int
	}{
		{"full frame", 300, 200, nil, 0, 300, 200},
		{"centered square", 400, 200, nil, 1, 200, 200},
		{"centered wide", 300, 300, nil, 2, 300, 150},
		{"explicit crop", 400, 400, &Rect{X: 10, Y: 20, Width: 100, Height: 50}, 1, 100, 50},
		{"crop clamped to bounds", 100, 100, &Rect{X: 50, Y: 50, Width: 100, Height: 100}, 0, 50, 50},
		{"downscale landscape", 2400, 600, nil, 0, 1200, 300},
		{"downscale portrait", 600, 2400, nil, 0, 300, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Process(encodePNG(t, tt.w, tt.h), tt.crop, tt.aspect)
			require.NoError(t, err)
			w, h := decodeSize(t, out)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestProcessRejects(t *testing.T) {
	_, err := Process([]byte("not an image"), nil, 0)
	assert.Error(t, err)

	_, err = Process(encodePNG(t, 50, 50), &Rect{X: 100, Y: 100, Width: 10, Height: 10}, 0)
	assert.ErrorIs(t, err, ErrInvalidCrop)
}

// pngHeader builds a PNG that declares w x h but carries no pixel data.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
	chunk := func(kind string, data []byte) {
		_ = binary.Write(&buf, binary.BigEndian, uint32(len(data)))
		body := append([]byte(kind), data...)
		buf.Write(body)
		_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(body))
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 0 // grayscale
	chunk("IHDR", ihdr)
	chunk("IDAT", nil)
	chunk("IEND", nil)
	return buf.Bytes()
}

func TestProcessRejectsOversizedHeader(t *testing.T) {
	tests := []struct {
		name string
		w, h uint32
	}{
		{"huge square", 20000, 20000},
		{"one side too long", MaxSourceSide + 1, 10},
		{"too many pixels", 7000, 7000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Process(pngHeader(tt.w, tt.h), nil, 1)
			assert.ErrorIs(t, err, ErrImageTooLarge)
		})
	}
}

func TestCheckDimensionsAcceptsNormalImage(t *testing.T) {
	assert.NoError(t, checkDimensions(encodePNG(t, 64, 48)))
}
