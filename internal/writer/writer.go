// Package writer implements the text output of machine state dumps.
package writer

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/state"
	"golang.org/x/term"
)

const memoryBytesPerLine = 16

// Pixel characters used for screen output.
const (
	terminalPixelOn = '█'
	plainPixelOn    = '#'
	pixelOff        = ' '
)

// clearSequence clears a terminal and moves the cursor to the top left.
const clearSequence = "\x1b[2J\x1b[H"

// Writer writes human readable dumps of the machine state.
type Writer struct {
	writer   io.Writer
	terminal bool
}

// New creates a new writer. Output to a terminal uses block characters for
// lit pixels and supports clearing the screen between frames.
func New(w io.Writer) *Writer {
	return &Writer{
		writer:   w,
		terminal: isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Screen writes the screen content with one character per pixel.
func (w *Writer) Screen(screen *display.Buffer) error {
	on := rune(plainPixelOn)
	if w.terminal {
		on = terminalPixelOn
	}
	if err := screen.Render(w.writer, on, pixelOff); err != nil {
		return fmt.Errorf("writing screen: %w", err)
	}
	return nil
}

// ClearScreen clears the terminal, it does nothing for other outputs.
func (w *Writer) ClearScreen() error {
	if !w.terminal {
		return nil
	}
	if _, err := io.WriteString(w.writer, clearSequence); err != nil {
		return fmt.Errorf("clearing screen: %w", err)
	}
	return nil
}

// Registers writes the registers, timers and the used part of the stack.
func (w *Writer) Registers(st *state.State) error {
	buf := &strings.Builder{}
	for i, value := range st.V {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "V%X=%02X", i, value)
	}
	buf.WriteByte('\n')

	fmt.Fprintf(buf, "I=%03X PC=%03X OP=%04X SP=%X DT=%02X ST=%02X\n",
		st.I, st.PC, st.Opcode, st.SP, st.Delay, st.Sound)

	buf.WriteString("stack:")
	for _, address := range st.StackContents() {
		fmt.Fprintf(buf, " %03X", address)
	}
	buf.WriteByte('\n')

	if _, err := io.WriteString(w.writer, buf.String()); err != nil {
		return fmt.Errorf("writing registers: %w", err)
	}
	return nil
}

// Keys writes the held keypad keys.
func (w *Writer) Keys(keys *keypad.Keypad) error {
	buf := &strings.Builder{}
	buf.WriteString("keys:")
	for key, down := range keys.Snapshot() {
		if down {
			fmt.Fprintf(buf, " %X", key)
		}
	}
	buf.WriteByte('\n')

	if _, err := io.WriteString(w.writer, buf.String()); err != nil {
		return fmt.Errorf("writing keys: %w", err)
	}
	return nil
}

// Memory writes a hex dump of the memory range, the range is clamped to the
// end of the address space.
func (w *Writer) Memory(st *state.State, start uint16, length int) error {
	end := min(int(start)+length, state.MemorySize)
	for address := int(start); address < end; address += memoryBytesPerLine {
		lineEnd := min(address+memoryBytesPerLine, end)

		buf := &strings.Builder{}
		fmt.Fprintf(buf, "$%03X:", address)
		for _, value := range st.Memory[address:lineEnd] {
			fmt.Fprintf(buf, " %02X", value)
		}
		buf.WriteByte('\n')

		if _, err := io.WriteString(w.writer, buf.String()); err != nil {
			return fmt.Errorf("writing memory line: %w", err)
		}
	}
	return nil
}

// ParseRange parses a memory range given as hex address and optional hex length,
// for example "200:40". Without a length a single output line is used.
func ParseRange(s string) (uint16, int, error) {
	addressPart, lengthPart, hasLength := strings.Cut(strings.TrimSpace(s), ":")

	address, err := ParseAddress(addressPart)
	if err != nil {
		return 0, 0, err
	}

	length := memoryBytesPerLine
	if hasLength {
		value, err := strconv.ParseUint(strings.TrimSpace(lengthPart), 16, 16)
		if err != nil || value == 0 {
			return 0, 0, fmt.Errorf("invalid memory range length '%s'", lengthPart)
		}
		length = int(value)
	}
	return address, length, nil
}

// ParseAddress parses a hex memory address with optional $ or 0x prefix.
func ParseAddress(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(strings.ToLower(s), "0x")

	value, err := strconv.ParseUint(s, 16, 16)
	if err != nil || value > state.MaxAddress {
		return 0, fmt.Errorf("invalid memory address '%s'", s)
	}
	return uint16(value), nil
}
