package config

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/state"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(false, false))
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
}

func TestCreateMachine(t *testing.T) {
	quirks := cpu.DefaultQuirks()
	quirks.LoadStoreIncrementsIndex = true

	m := CreateMachine(log.NewTestLogger(t), options.Emulator{
		Quirks: quirks,
		Seed:   7,
		Keys:   []uint8{0x3, 0xE},
	})

	assert.Equal(t, uint16(state.ProgramStart), m.State.PC)
	assert.True(t, m.Keys.IsDown(0x3))
	assert.True(t, m.Keys.IsDown(0xE))
	assert.False(t, m.Keys.IsDown(0x4))
	assert.Equal(t, quirks, m.CPU.Quirks())
}

func TestMachineStepTicksTimers(t *testing.T) {
	m := CreateMachine(log.NewTestLogger(t), options.Emulator{TickInterval: 2})
	// 6A05 7A01 repeated, timers preset so each tick is observable
	assert.NoError(t, m.State.LoadROM([]byte{0x6A, 0x05, 0x7A, 0x01, 0x7A, 0x01, 0x7A, 0x01}))
	m.State.Delay = 5
	m.State.Sound = 2

	_, err := m.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint8(5), m.State.Delay)

	_, err = m.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint8(4), m.State.Delay)
	assert.Equal(t, uint8(1), m.State.Sound)
	assert.Equal(t, uint64(0), m.Tones())

	_, err = m.Step()
	assert.NoError(t, err)
	_, err = m.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint8(3), m.State.Delay)
	assert.Equal(t, uint8(0), m.State.Sound)
	assert.Equal(t, uint64(1), m.Tones())
	assert.Equal(t, byte(8), m.State.V[0xA])
}

func TestMachineCheckpoint(t *testing.T) {
	m := CreateMachine(log.NewTestLogger(t), options.Emulator{})
	assert.NoError(t, m.State.LoadROM([]byte{0x6A, 0x05}))
	m.Checkpoint()

	_, err := m.Step()
	assert.NoError(t, err)
	m.Screen.SetXor(1, 1)
	assert.Equal(t, byte(5), m.State.V[0xA])

	m.Restore()
	assert.Equal(t, byte(0), m.State.V[0xA])
	assert.Equal(t, uint16(state.ProgramStart), m.State.PC)
	assert.Equal(t, byte(0x6A), m.State.Memory[state.ProgramStart])
	assert.Equal(t, 0, m.Screen.Lit())
}
