// Package state contains the CHIP-8 machine state store.
//
// The state owns the flat memory image, the register file, the index and
// program counter registers, the call stack and both timers. It holds no
// behavior besides initialization, program loading and the timer tick; the
// instruction semantics live in the cpu package.
package state

import (
	"errors"
	"fmt"
)

// CHIP-8 memory layout constants.
//
//	0x000-0x04F: Font glyphs (16 x 5 bytes)
//	0x050-0x1FF: Reserved interpreter area
//	0x200-0xFFF: Program space (3584 bytes)
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000

	// MaxAddress is the highest valid memory address.
	MaxAddress = MemorySize - 1

	// ProgramStart is the address that programs are loaded to and start executing at.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	// RegisterCount is the number of general purpose registers V0-VF.
	RegisterCount = 16

	// FlagRegister is the index of VF which stores carry, borrow and collision flags.
	FlagRegister = 0xF

	// StackDepth is the maximum number of nested subroutine calls.
	StackDepth = 16
)

// ErrROMTooLarge is returned when a program does not fit into the program space.
var ErrROMTooLarge = errors.New("rom too large")

// State is the complete CHIP-8 machine state except for the display and keypad.
type State struct {
	Memory [MemorySize]byte
	V      [RegisterCount]byte

	I      uint16 // index register, only the lower 12 bits address memory
	PC     uint16 // address of the next instruction
	Opcode uint16 // last fetched instruction

	Delay uint8 // delay timer
	Sound uint8 // sound timer

	Stack [StackDepth]uint16
	SP    uint8 // number of used stack slots
}

// New returns a new state that is reset and ready to load a program.
func New() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset clears memory, registers, stack and timers, writes the font
// and points the program counter at the program start.
func (s *State) Reset() {
	*s = State{}
	copy(s.Memory[FontAddress:], font[:])
	s.PC = ProgramStart
}

// LoadROM resets the state and copies the program to the program start address.
// A program larger than the program space is rejected and the state is left unchanged.
func (s *State) LoadROM(data []byte) error {
	if len(data) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes exceed the maximum of %d bytes", ErrROMTooLarge, len(data), MaxProgramSize)
	}

	s.Reset()
	copy(s.Memory[ProgramStart:], data)
	return nil
}

// Tick decrements both timers by one, stopping at zero.
// It returns whether a tone should be emitted for this tick, which is the
// case when the sound timer was exactly 1 before the decrement.
func (s *State) Tick() bool {
	tone := s.Sound == 1

	if s.Delay > 0 {
		s.Delay--
	}
	if s.Sound > 0 {
		s.Sound--
	}
	return tone
}

// StackContents returns the used part of the call stack, oldest entry first.
func (s *State) StackContents() []uint16 {
	return s.Stack[:s.SP]
}

// ReadWord returns the big-endian 16-bit word at the given address.
// The caller has to ensure that address+1 is within memory.
func (s *State) ReadWord(address uint16) uint16 {
	return uint16(s.Memory[address])<<8 | uint16(s.Memory[address+1])
}
