// Package screenshot exports the frame buffer as an image file.
package screenshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Format is an image file format.
type Format string

// Supported image formats.
const (
	PNG Format = "png"
	BMP Format = "bmp"
)

// FrameBuffer is the pixel source of a screenshot.
type FrameBuffer interface {
	Width() int
	Height() int
	Get(x, y int) bool
}

// FormatFromPath returns the image format matching the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch Format(ext) {
	case PNG:
		return PNG, nil
	case BMP:
		return BMP, nil
	default:
		return "", fmt.Errorf("unsupported screenshot format '%s'", ext)
	}
}

// Image renders the frame buffer white on black, every pixel scaled to a
// square of scale x scale image pixels.
func Image(fb FrameBuffer, scale int) (*image.Gray, error) {
	if scale < 1 {
		return nil, fmt.Errorf("invalid scale %d", scale)
	}

	src := image.NewGray(image.Rect(0, 0, fb.Width(), fb.Height()))
	for y := range fb.Height() {
		for x := range fb.Width() {
			if fb.Get(x, y) {
				src.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}
	if scale == 1 {
		return src, nil
	}

	dst := image.NewGray(image.Rect(0, 0, fb.Width()*scale, fb.Height()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// Write encodes the frame buffer as image in the given format.
func Write(w io.Writer, fb FrameBuffer, format Format, scale int) error {
	img, err := Image(fb, scale)
	if err != nil {
		return err
	}

	switch format {
	case PNG:
		err = png.Encode(w, img)
	case BMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported screenshot format '%s'", format)
	}
	if err != nil {
		return fmt.Errorf("encoding %s screenshot: %w", format, err)
	}
	return nil
}
