// Package cpu implements the CHIP-8 fetch-decode-execute engine.
//
// The engine reads and writes the machine state and calls into two
// collaborators that are owned by the embedder: a frame buffer and a keypad.
// It has no internal concurrency and no suspension points. Timing is
// supplied by the caller, which invokes Step for every instruction and Tick
// at a fixed interval, conventionally 60 Hz.
package cpu

import (
	"github.com/retroenv/retrochip8/internal/state"
	"github.com/retroenv/retrogolib/log"
)

// FrameBuffer is the monochrome screen that the engine draws to.
type FrameBuffer interface {
	Width() int
	Height() int
	Get(x, y int) bool
	SetXor(x, y int) bool // flips a pixel and returns its prior value
	Clear()
}

// Keypad provides the state of the 16 keypad keys.
// Querying a key must not change its state.
type Keypad interface {
	IsDown(key uint8) bool
}

// Outcome describes the result of executing a single step.
type Outcome uint8

const (
	// Executed means the instruction was executed and the program counter advanced.
	Executed Outcome = iota
	// Waiting means the key wait instruction found no held key. The program
	// counter was not advanced so the next step will poll again.
	Waiting
	// Unknown means the opcode did not decode. It was skipped.
	Unknown
	// Fault means a fatal condition that is described by the returned error.
	// Apart from the latched opcode the state was not modified, the program
	// counter still points at the faulting instruction.
	Fault
)

var outcomeNames = [...]string{
	Executed: "executed",
	Waiting:  "waiting",
	Unknown:  "unknown",
	Fault:    "fault",
}

func (o Outcome) String() string {
	if int(o) >= len(outcomeNames) {
		return "invalid"
	}
	return outcomeNames[o]
}

// Quirks selects between behaviors that differ across CHIP-8 interpreters.
type Quirks struct {
	// LoadStoreIncrementsIndex makes FX55 and FX65 set I to I+X+1, as the
	// original COSMAC VIP interpreter did.
	LoadStoreIncrementsIndex bool

	// AddIndexOverflow makes FX1E set VF to 1 when I+VX exceeds the
	// address space and to 0 otherwise.
	AddIndexOverflow bool
}

// DefaultQuirks returns the default compatibility settings.
func DefaultQuirks() Quirks {
	return Quirks{
		AddIndexOverflow: true,
	}
}

// Option configures a CPU.
type Option func(*CPU)

// WithQuirks sets the compatibility settings.
func WithQuirks(q Quirks) Option {
	return func(c *CPU) {
		c.quirks = q
	}
}

// WithRandomSource sets the source for the RND instruction.
func WithRandomSource(r RandomSource) Option {
	return func(c *CPU) {
		c.random = r
	}
}

// CPU executes instructions against a machine state.
type CPU struct {
	logger *log.Logger
	state  *state.State
	screen FrameBuffer
	keys   Keypad
	random RandomSource
	quirks Quirks

	cycles uint64
}

// New returns a new engine operating on the given state and collaborators.
func New(logger *log.Logger, st *state.State, screen FrameBuffer, keys Keypad, options ...Option) *CPU {
	c := &CPU{
		logger: logger,
		state:  st,
		screen: screen,
		keys:   keys,
		random: NewRandomSource(0),
		quirks: DefaultQuirks(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// State returns the machine state the engine operates on.
func (c *CPU) State() *state.State {
	return c.state
}

// Quirks returns the active compatibility settings.
func (c *CPU) Quirks() Quirks {
	return c.quirks
}

// Cycles returns the number of steps that did not fault.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Step fetches the instruction at the program counter, decodes and executes it.
// A non-nil error is always accompanied by the Fault outcome.
func (c *CPU) Step() (Outcome, error) {
	pc := c.state.PC
	if err := checkRange("fetch", pc, 2); err != nil {
		return Fault, err
	}

	c.state.Opcode = c.state.ReadWord(pc)
	outcome, err := c.execute(NewInstruction(c.state.Opcode))
	if err != nil {
		return Fault, err
	}
	c.cycles++
	return outcome, nil
}

// Tick decrements both timers and returns whether a tone is due for this tick.
func (c *CPU) Tick() bool {
	return c.state.Tick()
}

// checkRange returns an error if the length bytes starting at address
// are not all inside of memory.
func checkRange(op string, address uint16, length int) error {
	if int(address)+length-1 > state.MaxAddress {
		return &AddressError{
			Op:      op,
			Address: address,
			Length:  length,
		}
	}
	return nil
}
