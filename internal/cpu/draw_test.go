package cpu

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrogolib/assert"
)

func TestDrawSprite(t *testing.T) {
	// draw the font glyph "0" at 10, 5
	m := newTestMachine(t, []uint16{0x610A, 0x6205, 0xA000, 0xD125})
	m.steps(t, 4)

	assert.Equal(t, byte(0), m.state.V[0xF])
	assert.Equal(t, 14, m.screen.Lit())
	for col := range 4 {
		assert.True(t, m.screen.Get(10+col, 5))
		assert.True(t, m.screen.Get(10+col, 9))
	}
	assert.True(t, m.screen.Get(10, 7))
	assert.False(t, m.screen.Get(11, 7))
	assert.True(t, m.screen.Get(13, 7))
	assert.False(t, m.screen.Get(14, 5))
}

func TestDrawIdempotence(t *testing.T) {
	sprite := []byte{0xFF, 0x81, 0xA5, 0x3C}

	m := newTestMachine(t, []uint16{0xA300, 0xD124, 0xD124})
	copy(m.state.Memory[0x300:], sprite)
	m.state.V[1] = 20
	m.state.V[2] = 10

	// pre-existing pixels inside and outside of the sprite area
	m.screen.SetXor(21, 10)
	m.screen.SetXor(0, 0)
	before := m.screen.Pixels()

	m.steps(t, 2)
	assert.Equal(t, byte(1), m.state.V[0xF])
	afterFirst := m.screen.Pixels()

	m.step(t, Executed)
	assert.Equal(t, before, m.screen.Pixels())

	// second draw turns off every pixel that the first draw set
	var firstSet bool
	for i := range afterFirst {
		if afterFirst[i] && !before[i] {
			firstSet = true
		}
	}
	assert.True(t, firstSet)
	assert.Equal(t, byte(1), m.state.V[0xF])
}

func TestDrawCollisionFlag(t *testing.T) {
	tests := []struct {
		name     string
		preset   bool
		wantFlag byte
	}{
		{"no collision", false, 0},
		{"collision", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, []uint16{0xA300, 0xD011})
			m.state.Memory[0x300] = 0x80
			m.state.V[0xF] = 0x33
			if tt.preset {
				m.screen.SetXor(0, 0)
			}

			m.steps(t, 2)
			assert.Equal(t, tt.wantFlag, m.state.V[0xF])
			assert.Equal(t, !tt.preset, m.screen.Get(0, 0))
		})
	}
}

func TestDrawWrapsAround(t *testing.T) {
	m := newTestMachine(t, []uint16{0xA300, 0xD122})
	m.state.Memory[0x300] = 0xC0
	m.state.Memory[0x301] = 0xC0
	m.state.V[1] = display.Width - 1
	m.state.V[2] = display.Height - 1

	m.steps(t, 2)

	assert.True(t, m.screen.Get(display.Width-1, display.Height-1))
	assert.True(t, m.screen.Get(0, display.Height-1))
	assert.True(t, m.screen.Get(display.Width-1, 0))
	assert.True(t, m.screen.Get(0, 0))
	assert.Equal(t, 4, m.screen.Lit())
}

func TestDrawLargeCoordinates(t *testing.T) {
	// coordinates beyond the screen size wrap as well
	m := newTestMachine(t, []uint16{0xA300, 0xD121})
	m.state.Memory[0x300] = 0x80
	m.state.V[1] = 0xFF
	m.state.V[2] = 0xFF

	m.steps(t, 2)
	assert.True(t, m.screen.Get(0xFF%display.Width, 0xFF%display.Height))
}

func TestDrawFlagRegisterCoordinates(t *testing.T) {
	// VF is read as coordinate before it is cleared
	m := newTestMachine(t, []uint16{0xA300, 0xDF11})
	m.state.Memory[0x300] = 0x80
	m.state.V[0xF] = 7
	m.state.V[1] = 3

	m.steps(t, 2)
	assert.True(t, m.screen.Get(7, 3))
	assert.Equal(t, byte(0), m.state.V[0xF])
}
