// Package snapshot persists the complete machine state.
//
// The layout is fixed width little-endian without padding or version tag:
//
//	I          uint16
//	PC         uint16
//	Opcode     uint16
//	Delay      uint8
//	Sound      uint8
//	V0-VF      16 x uint8
//	Memory     4096 x uint8
//	StackDepth uint8
//	Stack      16 x uint16
//	Pixels     2048 x uint8, one byte per pixel in row major order
package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/lunixbochs/struc"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/state"
)

// Size is the size of a snapshot in bytes.
const Size = 2 + 2 + 2 + 1 + 1 +
	state.RegisterCount +
	state.MemorySize +
	1 + 2*state.StackDepth +
	display.PixelCount

// ErrInvalidSnapshot is returned when a snapshot contains values that do not
// describe a valid machine state.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

var byteOrder = binary.LittleEndian

// image is the on-disk representation of a machine state.
type image struct {
	Index      uint16
	PC         uint16
	Opcode     uint16
	Delay      uint8
	Sound      uint8
	Registers  [state.RegisterCount]uint8
	Memory     [state.MemorySize]uint8
	StackDepth uint8
	Stack      [state.StackDepth]uint16
	Pixels     [display.PixelCount]uint8
}

// Save writes the state and the screen content.
func Save(w io.Writer, st *state.State, screen *display.Buffer) error {
	img := &image{
		Index:      st.I,
		PC:         st.PC,
		Opcode:     st.Opcode,
		Delay:      st.Delay,
		Sound:      st.Sound,
		Registers:  st.V,
		Memory:     st.Memory,
		StackDepth: st.SP,
		Stack:      st.Stack,
	}

	pixels := screen.Pixels()
	for i, set := range pixels {
		if set {
			img.Pixels[i] = 1
		}
	}

	if err := struc.PackWithOrder(w, img, byteOrder); err != nil {
		return fmt.Errorf("packing snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot and restores the state and the screen content.
// The state and screen are only modified if the snapshot is valid.
func Load(r io.Reader, st *state.State, screen *display.Buffer) error {
	img := &image{}
	if err := struc.UnpackWithOrder(io.LimitReader(r, Size), img, byteOrder); err != nil {
		return fmt.Errorf("unpacking snapshot: %w", err)
	}

	if int(img.StackDepth) > state.StackDepth {
		return fmt.Errorf("%w: stack depth %d exceeds %d", ErrInvalidSnapshot, img.StackDepth, state.StackDepth)
	}

	var pixels [display.PixelCount]bool
	for i, value := range img.Pixels {
		switch value {
		case 0:
		case 1:
			pixels[i] = true
		default:
			return fmt.Errorf("%w: pixel %d has value %d", ErrInvalidSnapshot, i, value)
		}
	}

	*st = state.State{
		Memory: img.Memory,
		V:      img.Registers,
		I:      img.Index,
		PC:     img.PC,
		Opcode: img.Opcode,
		Delay:  img.Delay,
		Sound:  img.Sound,
		Stack:  img.Stack,
		SP:     img.StackDepth,
	}
	screen.SetPixels(pixels)
	return nil
}
