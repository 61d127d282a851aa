package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoder
	"image/jpeg"
	_ "image/png" // register decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder
)

const (
	MaxDimension = 1200
	JPEGQuality  = 80

	// Source limits, checked from the header before any pixel buffer is allocated.
	MaxSourceSide   = 8000
	MaxSourcePixels = 40_000_000
)

var (
	ErrInvalidCrop   = errors.New("crop area is outside the image")
	ErrImageTooLarge = errors.New("image dimensions are too large")
)

// Rect is a crop area in source pixels.
type Rect struct {
	X, Y, Width, Height int
}

// Process crops the image, scales it down to MaxDimension on the longest side and
// re-encodes it as JPEG. With no crop and aspect > 0 the largest centered area of that
// aspect ratio is kept; with neither the full frame is used.
func Process(data []byte, crop *Rect, aspect float64) ([]byte, error) {
	if err := checkDimensions(data); err != nil {
		return nil, err
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	area, err := cropArea(src.Bounds(), crop, aspect)
	if err != nil {
		return nil, err
	}

	w, h := fit(area.Dx(), area.Dy(), MaxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// JPEG has no alpha; transparent pixels become white instead of black.
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, area, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// checkDimensions reads only the image header. Decoders allocate for the declared
// size, so a few bytes can otherwise claim gigabytes.
func checkDimensions(data []byte) error {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to read image header (format: %s): %w", format, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("failed to read image header (format: %s): empty image", format)
	}
	if cfg.Width > MaxSourceSide || cfg.Height > MaxSourceSide ||
		int64(cfg.Width)*int64(cfg.Height) > MaxSourcePixels {
		return fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	return nil
}

func cropArea(bounds image.Rectangle, crop *Rect, aspect float64) (image.Rectangle, error) {
	if crop != nil && crop.Width > 0 && crop.Height > 0 {
		r := image.Rect(crop.X, crop.Y, crop.X+crop.Width, crop.Y+crop.Height).
			Add(bounds.Min).
			Intersect(bounds)
		if r.Empty() {
			return image.Rectangle{}, ErrInvalidCrop
		}
		return r, nil
	}
	if aspect <= 0 {
		return bounds, nil
	}

	w, h := bounds.Dx(), bounds.Dy()
	cw, ch := w, int(float64(w)/aspect+0.5)
	if ch > h {
		cw, ch = int(float64(h)*aspect+0.5), h
	}
	if cw < 1 || ch < 1 {
		return image.Rectangle{}, ErrInvalidCrop
	}
	x0 := bounds.Min.X + (w-cw)/2
	y0 := bounds.Min.Y + (h-ch)/2
	return image.Rect(x0, y0, x0+cw, y0+ch), nil
}

// fit keeps the aspect ratio and caps the longest side at limit.
func fit(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, maxInt(1, h*limit/w)
	}
	return maxInt(1, w*limit/h), limit
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
