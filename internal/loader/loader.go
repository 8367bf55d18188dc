// Package loader handles ROM and snapshot file loading operations.
package loader

import (
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/snapshot"
	"github.com/retroenv/retrochip8/internal/state"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
	"github.com/retroenv/retrogolib/log"
)

// Loader handles loading program and snapshot files from disk.
type Loader struct {
	logger *log.Logger
}

// New creates a new file loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load loads the file into the state and screen based on its detected kind.
// It returns the detected kind and for ROM files the program bytes.
func (l *Loader) Load(path string, st *state.State, screen *display.Buffer) (Kind, []byte, error) {
	kind := DetectKind(path)
	l.logger.Debug("Auto-detected file kind",
		log.Stringer("kind", kind),
		log.String("file", path))

	switch kind {
	case Snapshot:
		return kind, nil, l.LoadSnapshot(path, st, screen)
	default:
		program, err := l.LoadROM(path, st)
		return kind, program, err
	}
}

// LoadROM reads a raw program file and copies it into memory at the program start.
// The returned program is the unpadded file content.
func (l *Loader) LoadROM(path string, st *state.State) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("reading file info %s: %w", path, err)
	}

	cart, err := cartridge.LoadBuffer(file)
	if err != nil {
		return nil, fmt.Errorf("loading cartridge: %w", err)
	}
	// the cartridge pads its PRG segment to the bank size
	size := min(int(info.Size()), len(cart.PRG))
	program := cart.PRG[:size]

	if err := st.LoadROM(program); err != nil {
		return nil, fmt.Errorf("loading program %s: %w", path, err)
	}

	l.logger.Debug("Loaded program",
		log.Stringer("system", arch.CHIP8System),
		log.String("file", path),
		log.Int("size", len(program)))
	return program, nil
}

// LoadSnapshot restores the state and screen from a snapshot file.
func (l *Loader) LoadSnapshot(path string, st *state.State, screen *display.Buffer) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	if err := snapshot.Load(file, st, screen); err != nil {
		return fmt.Errorf("loading snapshot %s: %w", path, err)
	}

	l.logger.Debug("Loaded snapshot",
		log.String("file", path),
		log.Hex("pc", st.PC))
	return nil
}
