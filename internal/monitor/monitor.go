// Package monitor implements an interactive debugger for a running machine.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/state"
	"github.com/retroenv/retrochip8/internal/writer"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// Default argument values of commands.
const (
	defaultRunLimit      = 1_000_000
	defaultDisasmCount   = 10
	defaultMemoryLength  = 0x40
	instructionSizeBytes = 2
)

var errUsage = errors.New("invalid arguments")

const helpText = `commands:
  step [n]             execute n instructions, default 1
  run [n]              execute until a breakpoint, fault or key wait, at most n instructions
  regs                 print the registers
  mem <addr> [len]     print memory, address and length in hex
  screen               print the screen
  break <addr>         set a breakpoint
  delete <addr>        delete a breakpoint
  breaks               list breakpoints
  tick                 advance the timers by one tick
  key <k> on|off       press or release a keypad key
  hostkey <c> on|off   press or release the keypad key mapped to a keyboard key
  dis [addr] [n]       disassemble n instructions, default at PC
  reset                restore the machine to its initial state
  help                 print this help
  quit                 leave the monitor
`

// Monitor executes debugger commands on a machine.
type Monitor struct {
	logger  *log.Logger
	machine *config.Machine
	out     io.Writer
	dump    *writer.Writer

	breakpoints set.Set[uint16]
}

// New creates a new monitor. The current machine state is remembered
// as initial state for the reset command.
func New(logger *log.Logger, machine *config.Machine, out io.Writer) *Monitor {
	machine.Checkpoint()
	return &Monitor{
		logger:      logger,
		machine:     machine,
		out:         out,
		dump:        writer.New(out),
		breakpoints: set.New[uint16](),
	}
}

// Run reads commands from an interactive prompt until quit is entered,
// the input ends or the context is canceled.
func (m *Monitor) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          m.prompt(),
		InterruptPrompt: "\n",
	})
	if err != nil {
		return fmt.Errorf("creating prompt: %w", err)
	}
	defer func() {
		_ = rl.Close()
	}()

	for ctx.Err() == nil {
		rl.SetPrompt(m.prompt())

		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("reading command: %w", err)
		}

		quit, err := m.Exec(line)
		if err != nil {
			fmt.Fprintf(m.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return ctx.Err()
}

func (m *Monitor) prompt() string {
	return fmt.Sprintf("%03X> ", m.machine.State.PC)
}

// Exec executes a single command line and returns whether the monitor should quit.
// Empty lines are ignored.
func (m *Monitor) Exec(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	var err error
	switch command {
	case "step", "s":
		err = m.step(args)
	case "run", "r":
		err = m.run(args)
	case "regs":
		err = m.registers()
	case "mem", "m":
		err = m.memory(args)
	case "screen":
		err = m.screen()
	case "break", "b":
		err = m.setBreakpoint(args)
	case "delete", "d":
		err = m.deleteBreakpoint(args)
	case "breaks":
		err = m.listBreakpoints()
	case "tick":
		m.machine.Tick()
		_, err = fmt.Fprintf(m.out, "DT=%02X ST=%02X\n", m.machine.State.Delay, m.machine.State.Sound)
	case "key", "k":
		err = m.key(args)
	case "hostkey", "hk":
		err = m.hostKey(args)
	case "dis":
		err = m.disassemble(args)
	case "reset":
		m.machine.Restore()
	case "help", "h", "?":
		_, err = io.WriteString(m.out, helpText)
	case "quit", "q", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command '%s'", command)
	}
	return false, err
}

// Breakpoints returns the sorted breakpoint addresses.
func (m *Monitor) Breakpoints() []uint16 {
	addresses := make([]uint16, 0, len(m.breakpoints))
	for address := range m.breakpoints {
		addresses = append(addresses, address)
	}
	slices.Sort(addresses)
	return addresses
}

func (m *Monitor) step(args []string) error {
	count, err := countArgument(args, 0, 1)
	if err != nil {
		return err
	}

	for range count {
		pc := m.machine.State.PC
		outcome, err := m.machine.Step()
		if _, werr := fmt.Fprintf(m.out, "$%03X  %04X  %-20s %s\n", pc, m.machine.State.Opcode,
			disasm.Format(m.machine.State.Opcode), outcome); werr != nil {
			return fmt.Errorf("writing step: %w", werr)
		}
		if err != nil {
			return fmt.Errorf("step at $%03X: %w", pc, err)
		}
	}
	return nil
}

func (m *Monitor) run(args []string) error {
	limit, err := countArgument(args, 0, defaultRunLimit)
	if err != nil {
		return err
	}

	for i := range limit {
		pc := m.machine.State.PC
		if i > 0 && m.breakpoints.Contains(pc) {
			m.logger.Debug("Breakpoint hit", log.Hex("address", pc), log.Int("instructions", i))
			_, err := fmt.Fprintf(m.out, "breakpoint at $%03X after %d instructions\n", pc, i)
			return err
		}

		outcome, err := m.machine.Step()
		if err != nil {
			return fmt.Errorf("run at $%03X: %w", pc, err)
		}
		if outcome == cpu.Waiting {
			_, err := fmt.Fprintf(m.out, "waiting for key at $%03X after %d instructions\n", pc, i+1)
			return err
		}
	}

	_, err = fmt.Fprintf(m.out, "stopped at $%03X after %d instructions\n", m.machine.State.PC, limit)
	return err
}

func (m *Monitor) registers() error {
	if err := m.dump.Registers(m.machine.State); err != nil {
		return err
	}
	return m.dump.Keys(m.machine.Keys)
}

func (m *Monitor) screen() error {
	if err := m.dump.ClearScreen(); err != nil {
		return err
	}
	return m.dump.Screen(m.machine.Screen)
}

func (m *Monitor) memory(args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("%w: mem <addr> [len]", errUsage)
	}
	address, err := writer.ParseAddress(args[0])
	if err != nil {
		return err
	}

	length := defaultMemoryLength
	if len(args) == 2 {
		value, err := strconv.ParseUint(args[1], 16, 16)
		if err != nil || value == 0 {
			return fmt.Errorf("invalid memory length '%s'", args[1])
		}
		length = int(value)
	}
	return m.dump.Memory(m.machine.State, address, length)
}

func (m *Monitor) setBreakpoint(args []string) error {
	address, err := addressArgument(args, "break <addr>")
	if err != nil {
		return err
	}
	m.breakpoints.Add(address)
	return nil
}

func (m *Monitor) deleteBreakpoint(args []string) error {
	address, err := addressArgument(args, "delete <addr>")
	if err != nil {
		return err
	}
	if !m.breakpoints.Contains(address) {
		return fmt.Errorf("no breakpoint at $%03X", address)
	}
	delete(m.breakpoints, address)
	return nil
}

func (m *Monitor) listBreakpoints() error {
	for _, address := range m.Breakpoints() {
		// the last address holds only a single byte
		text := fmt.Sprintf(".byte $%02X", m.machine.State.Memory[address])
		if address < state.MaxAddress {
			text = disasm.Format(m.machine.State.ReadWord(address))
		}
		if _, err := fmt.Fprintf(m.out, "$%03X  %s\n", address, text); err != nil {
			return fmt.Errorf("writing breakpoint: %w", err)
		}
	}
	return nil
}

func (m *Monitor) key(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: key <k> on|off", errUsage)
	}
	key, err := strconv.ParseUint(args[0], 16, 8)
	if err != nil || key >= keypad.KeyCount {
		return fmt.Errorf("invalid keypad key '%s'", args[0])
	}

	return m.setKey(uint8(key), args[1], "key <k> on|off")
}

func (m *Monitor) hostKey(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: hostkey <c> on|off", errUsage)
	}
	runes := []rune(args[0])
	if len(runes) != 1 {
		return fmt.Errorf("invalid keyboard key '%s'", args[0])
	}
	key, ok := keypad.KeyForRune(runes[0])
	if !ok {
		return fmt.Errorf("keyboard key '%s' is not mapped to the keypad", args[0])
	}
	return m.setKey(key, args[1], "hostkey <c> on|off")
}

func (m *Monitor) setKey(key uint8, action, usage string) error {
	switch strings.ToLower(action) {
	case "on", "down":
		m.machine.Keys.Press(key)
	case "off", "up":
		m.machine.Keys.Release(key)
	default:
		return fmt.Errorf("%w: %s", errUsage, usage)
	}
	return nil
}

func (m *Monitor) disassemble(args []string) error {
	if len(args) > 2 {
		return fmt.Errorf("%w: dis [addr] [n]", errUsage)
	}

	address := m.machine.State.PC
	if len(args) > 0 {
		var err error
		if address, err = writer.ParseAddress(args[0]); err != nil {
			return err
		}
	}
	count, err := countArgument(args, 1, defaultDisasmCount)
	if err != nil {
		return err
	}

	end := min(int(address)+count*instructionSizeBytes, state.MemorySize)
	return disasm.Listing(m.out, m.machine.State.Memory[address:end], address)
}

func addressArgument(args []string, usage string) (uint16, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	address, err := writer.ParseAddress(args[0])
	if err != nil {
		return 0, err
	}
	return address, nil
}

// countArgument parses the optional decimal count at the given argument index.
func countArgument(args []string, index, defaultValue int) (int, error) {
	if len(args) <= index {
		return defaultValue, nil
	}
	count, err := strconv.Atoi(args[index])
	if err != nil || count < 1 {
		return 0, fmt.Errorf("invalid count '%s'", args[index])
	}
	return count, nil
}
