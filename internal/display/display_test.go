package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestSetXor(t *testing.T) {
	b := New()
	assert.False(t, b.Dirty())

	assert.False(t, b.SetXor(3, 4))
	assert.True(t, b.Get(3, 4))
	assert.True(t, b.Dirty())

	assert.True(t, b.SetXor(3, 4))
	assert.False(t, b.Get(3, 4))
}

func TestOutOfRange(t *testing.T) {
	b := New()

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 0},
		{"negative y", 0, -1},
		{"x too large", Width, 0},
		{"y too large", 0, Height},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, b.SetXor(tt.x, tt.y))
			assert.False(t, b.Get(tt.x, tt.y))
		})
	}
	assert.False(t, b.Dirty())
}

func TestClear(t *testing.T) {
	b := New()
	b.SetXor(0, 0)
	b.SetXor(Width-1, Height-1)
	b.ResetDirty()
	assert.Equal(t, 2, b.Lit())

	b.Clear()
	assert.Equal(t, 0, b.Lit())
	assert.True(t, b.Dirty())
}

func TestPixels(t *testing.T) {
	b := New()
	b.SetXor(1, 0)
	pixels := b.Pixels()
	assert.True(t, pixels[1])

	other := New()
	other.SetPixels(pixels)
	assert.True(t, other.Get(1, 0))
	assert.Equal(t, 1, other.Lit())
}

func TestRender(t *testing.T) {
	b := New()
	b.SetXor(0, 0)
	b.SetXor(2, 1)

	var buf bytes.Buffer
	assert.NoError(t, b.Render(&buf, '#', '.'))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, Height)
	assert.Equal(t, "#"+strings.Repeat(".", Width-1), lines[0])
	assert.Equal(t, "..#"+strings.Repeat(".", Width-3), lines[1])
}
