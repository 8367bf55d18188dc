package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/state"
	"github.com/retroenv/retrogolib/assert"
)

func testState(t *testing.T) (*state.State, *display.Buffer) {
	t.Helper()

	st := state.New()
	assert.NoError(t, st.LoadROM([]byte{0x6A, 0x05, 0x22, 0x10}))
	st.I = 0x2F0
	st.PC = 0x204
	st.Opcode = 0x2210
	st.Delay = 12
	st.Sound = 3
	st.V[0] = 0x01
	st.V[0xF] = 0xFF
	st.Stack[0] = 0x202
	st.Stack[1] = 0x210
	st.SP = 2

	screen := display.New()
	screen.SetXor(0, 0)
	screen.SetXor(63, 31)
	return st, screen
}

func TestRoundTrip(t *testing.T) {
	st, screen := testState(t)

	var buf bytes.Buffer
	assert.NoError(t, Save(&buf, st, screen))
	assert.Equal(t, Size, buf.Len())

	restored := state.New()
	restoredScreen := display.New()
	assert.NoError(t, Load(bytes.NewReader(buf.Bytes()), restored, restoredScreen))

	assert.Equal(t, *st, *restored)
	assert.Equal(t, screen.Pixels(), restoredScreen.Pixels())
	assert.True(t, restoredScreen.Dirty())
}

func TestLayout(t *testing.T) {
	st, screen := testState(t)

	var buf bytes.Buffer
	assert.NoError(t, Save(&buf, st, screen))
	data := buf.Bytes()

	assert.Equal(t, uint16(0x2F0), binary.LittleEndian.Uint16(data[0:]))
	assert.Equal(t, uint16(0x204), binary.LittleEndian.Uint16(data[2:]))
	assert.Equal(t, uint16(0x2210), binary.LittleEndian.Uint16(data[4:]))
	assert.Equal(t, byte(12), data[6])
	assert.Equal(t, byte(3), data[7])
	assert.Equal(t, byte(0x01), data[8])
	assert.Equal(t, byte(0xFF), data[8+0xF])

	memoryOffset := 8 + state.RegisterCount
	assert.Equal(t, byte(0xF0), data[memoryOffset])
	assert.Equal(t, byte(0x6A), data[memoryOffset+state.ProgramStart])

	stackOffset := memoryOffset + state.MemorySize
	assert.Equal(t, byte(2), data[stackOffset])
	assert.Equal(t, uint16(0x202), binary.LittleEndian.Uint16(data[stackOffset+1:]))
	assert.Equal(t, uint16(0x210), binary.LittleEndian.Uint16(data[stackOffset+3:]))

	pixelOffset := stackOffset + 1 + 2*state.StackDepth
	assert.Equal(t, byte(1), data[pixelOffset])
	assert.Equal(t, byte(0), data[pixelOffset+1])
	assert.Equal(t, byte(1), data[pixelOffset+display.PixelCount-1])
	assert.Equal(t, Size, pixelOffset+display.PixelCount)
}

func TestLoadInvalid(t *testing.T) {
	st, screen := testState(t)

	var buf bytes.Buffer
	assert.NoError(t, Save(&buf, st, screen))
	valid := buf.Bytes()
	stackOffset := 8 + state.RegisterCount + state.MemorySize

	tests := []struct {
		name    string
		data    func() []byte
		invalid bool
	}{
		{"truncated", func() []byte { return valid[:100] }, false},
		{"empty", func() []byte { return nil }, false},
		{"stack too deep", func() []byte {
			data := bytes.Clone(valid)
			data[stackOffset] = state.StackDepth + 1
			return data
		}, true},
		{"invalid pixel", func() []byte {
			data := bytes.Clone(valid)
			data[Size-1] = 2
			return data
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := state.New()
			target.V[3] = 0x33
			targetScreen := display.New()

			err := Load(bytes.NewReader(tt.data()), target, targetScreen)
			assert.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalidSnapshot))
			assert.Equal(t, byte(0x33), target.V[3])
			assert.Equal(t, 0, targetScreen.Lit())
		})
	}
}
