// Package options contains the program options.
package options

import (
	"github.com/retroenv/retrochip8/internal/cpu"
)

// Default values of the emulator options.
const (
	DefaultCycles       = 1000
	DefaultTickInterval = 10 // ~600 instructions per second at 60 Hz timers
	DefaultScale        = 8
)

// Parameters contains file path options.
type Parameters struct {
	Input      string // ROM or snapshot file to load
	SaveState  string // snapshot file to write after the run
	Screenshot string // image file to write after the run
}

// Flags contains behavior options.
type Flags struct {
	Cycles       int    // number of instructions to execute, 0 runs until a fault or interrupt
	TickInterval int    // number of instructions per timer tick
	Seed         uint64 // random number generator seed
	Keys         string // comma separated list of held keypad keys
	Verify       bool   // verify the saved snapshot by loading it again
	Monitor      bool   // start the interactive monitor instead of running
	Trace        bool   // log every executed instruction
	Debug        bool
	Quiet        bool

	QuirkLoadStore     bool // FX55/FX65 increment I
	QuirkIndexOverflow bool // FX1E sets VF on overflow
}

// OutputFlags contains output options.
type OutputFlags struct {
	Screen    bool   // print the screen content after the run
	Registers bool   // print the registers after the run
	Memory    string // print a memory range after the run, as address:length in hex
	Disasm    bool   // print a disassembly listing of the ROM instead of running
	Scale     int    // screenshot pixel scale factor
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	OutputFlags
}

// Emulator defines options to control the emulation.
type Emulator struct {
	Quirks       cpu.Quirks
	Seed         uint64
	TickInterval int
	Keys         []uint8 // keypad keys held for the whole run
}

// NewEmulator returns emulator options derived from the program options.
func NewEmulator(opts Program, keys []uint8) Emulator {
	quirks := cpu.DefaultQuirks()
	quirks.LoadStoreIncrementsIndex = opts.QuirkLoadStore
	quirks.AddIndexOverflow = opts.QuirkIndexOverflow

	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}

	return Emulator{
		Quirks:       quirks,
		Seed:         opts.Seed,
		TickInterval: tickInterval,
		Keys:         keys,
	}
}
