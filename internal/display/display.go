// Package display implements the CHIP-8 monochrome frame buffer.
package display

import (
	"bufio"
	"fmt"
	"io"
)

// Canonical CHIP-8 screen dimensions.
const (
	Width  = 64
	Height = 32

	PixelCount = Width * Height
)

// Buffer is a monochrome pixel grid with a dirty flag that gets set
// on every modification, signaling that the screen needs to be redrawn.
type Buffer struct {
	pixels [PixelCount]bool
	dirty  bool
}

// New returns a new cleared frame buffer.
func New() *Buffer {
	return &Buffer{}
}

// Width returns the number of pixel columns.
func (b *Buffer) Width() int {
	return Width
}

// Height returns the number of pixel rows.
func (b *Buffer) Height() int {
	return Height
}

// Get returns whether the pixel at the given position is set.
// Positions outside of the screen are reported as unset.
func (b *Buffer) Get(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return b.pixels[y*Width+x]
}

// SetXor flips the pixel at the given position and returns its prior value.
// Positions outside of the screen are ignored.
func (b *Buffer) SetXor(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	idx := y*Width + x
	prior := b.pixels[idx]
	b.pixels[idx] = !prior
	b.dirty = true
	return prior
}

// Clear unsets all pixels.
func (b *Buffer) Clear() {
	b.pixels = [PixelCount]bool{}
	b.dirty = true
}

// Dirty returns whether the buffer was modified since the last ResetDirty call.
func (b *Buffer) Dirty() bool {
	return b.dirty
}

// ResetDirty clears the dirty flag.
func (b *Buffer) ResetDirty() {
	b.dirty = false
}

// Pixels returns a copy of all pixels in row major order.
func (b *Buffer) Pixels() [PixelCount]bool {
	return b.pixels
}

// SetPixels replaces all pixels, used for restoring snapshots.
func (b *Buffer) SetPixels(pixels [PixelCount]bool) {
	b.pixels = pixels
	b.dirty = true
}

// Lit returns the number of set pixels.
func (b *Buffer) Lit() int {
	var n int
	for _, p := range b.pixels {
		if p {
			n++
		}
	}
	return n
}

// Render writes the screen as text, one line per pixel row.
func (b *Buffer) Render(w io.Writer, on, off rune) error {
	bw := bufio.NewWriter(w)
	for y := range Height {
		for x := range Width {
			r := off
			if b.pixels[y*Width+x] {
				r = on
			}
			if _, err := bw.WriteRune(r); err != nil {
				return fmt.Errorf("writing pixel: %w", err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing line break: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing screen: %w", err)
	}
	return nil
}
