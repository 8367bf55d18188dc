// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/state"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// Machine bundles the components of an emulated system.
type Machine struct {
	State  *state.State
	Screen *display.Buffer
	Keys   *keypad.Keypad
	CPU    *cpu.CPU

	tickInterval uint64
	tones        uint64

	checkpoint       state.State
	checkpointPixels [display.PixelCount]bool
}

// CreateMachine creates a reset machine configured by the emulator options.
// Keys listed in the options are held down from the start.
func CreateMachine(logger *log.Logger, opts options.Emulator) *Machine {
	st := state.New()
	screen := display.New()
	keys := keypad.New()
	for _, key := range opts.Keys {
		keys.Press(key)
	}

	c := cpu.New(logger, st, screen, keys,
		cpu.WithQuirks(opts.Quirks),
		cpu.WithRandomSource(cpu.NewRandomSource(opts.Seed)),
	)

	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = options.DefaultTickInterval
	}

	return &Machine{
		State:        st,
		Screen:       screen,
		Keys:         keys,
		CPU:          c,
		tickInterval: uint64(tickInterval),
	}
}

// Step executes one instruction and ticks the timers once every tick interval
// of executed instructions. Waiting for a key counts as an executed cycle.
func (m *Machine) Step() (cpu.Outcome, error) {
	outcome, err := m.CPU.Step()
	if err != nil {
		return outcome, err
	}
	if m.CPU.Cycles()%m.tickInterval == 0 {
		m.Tick()
	}
	return outcome, nil
}

// Tick advances the timers by one 60 Hz tick.
func (m *Machine) Tick() {
	if m.CPU.Tick() {
		m.tones++
	}
}

// Tones returns the number of ticks that emitted a tone.
func (m *Machine) Tones() uint64 {
	return m.tones
}

// Checkpoint remembers the current state and screen content.
func (m *Machine) Checkpoint() {
	m.checkpoint = *m.State
	m.checkpointPixels = m.Screen.Pixels()
}

// Restore returns to the state and screen content of the last checkpoint.
func (m *Machine) Restore() {
	*m.State = m.checkpoint
	m.Screen.SetPixels(m.checkpointPixels)
}
