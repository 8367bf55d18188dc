// Package runner orchestrates a single emulation run.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/monitor"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/screenshot"
	"github.com/retroenv/retrochip8/internal/snapshot"
	"github.com/retroenv/retrochip8/internal/state"
	"github.com/retroenv/retrochip8/internal/verification"
	"github.com/retroenv/retrochip8/internal/writer"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var errDisasmSnapshot = errors.New("disassembly requires a ROM file")

// Runner orchestrates loading, executing and the outputs of a machine.
type Runner struct {
	logger *log.Logger
	loader *loader.Loader
}

// New creates a new runner.
func New(logger *log.Logger) *Runner {
	return &Runner{
		logger: logger,
		loader: loader.New(logger),
	}
}

// Execute loads the input file, runs it as configured and writes the
// requested outputs. Text output is written to w.
func (r *Runner) Execute(ctx context.Context, opts options.Program, emuOpts options.Emulator, w io.Writer) error {
	machine := config.CreateMachine(r.logger, emuOpts)

	kind, program, err := r.loader.Load(opts.Input, machine.State, machine.Screen)
	if err != nil {
		return fmt.Errorf("loading input: %w", err)
	}
	r.printInfo(opts, emuOpts, machine, kind)

	if opts.Disasm {
		if kind != loader.ROM {
			return errDisasmSnapshot
		}
		if err := disasm.Listing(w, program, state.ProgramStart); err != nil {
			return fmt.Errorf("writing disassembly: %w", err)
		}
		return nil
	}

	if opts.Monitor {
		if err := monitor.New(r.logger, machine, w).Run(ctx); err != nil {
			return fmt.Errorf("running monitor: %w", err)
		}
	} else if err := r.run(ctx, machine, opts, len(emuOpts.Keys) > 0); err != nil {
		return err
	}

	r.logger.Info("Emulation finished",
		log.Int("cycles", int(machine.CPU.Cycles())),
		log.Hex("pc", machine.State.PC),
		log.Int("tones", int(machine.Tones())))

	return r.writeOutputs(opts, machine, w)
}

// run executes the configured number of instructions, 0 runs until the
// context is canceled or the program waits for a key that is never pressed.
func (r *Runner) run(ctx context.Context, machine *config.Machine, opts options.Program, keysHeld bool) error {
	if opts.Trace && !opts.Debug {
		r.logger.Warn("Instruction tracing requires the debug option")
	}

	for i := 0; opts.Cycles == 0 || i < opts.Cycles; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("running program: %w", err)
		}

		pc := machine.State.PC
		outcome, err := machine.Step()
		if err != nil {
			return fmt.Errorf("executing instruction at $%03X: %w", pc, err)
		}

		if opts.Trace {
			r.logger.Debug("Executed",
				log.Hex("address", pc),
				log.Hex("opcode", machine.State.Opcode),
				log.String("instruction", disasm.Format(machine.State.Opcode)),
				log.Stringer("outcome", outcome))
		}

		if outcome == cpu.Waiting && opts.Cycles == 0 && !keysHeld {
			r.logger.Info("Program waits for a key press, stopping", log.Hex("pc", pc))
			return nil
		}
	}
	return nil
}

func (r *Runner) writeOutputs(opts options.Program, machine *config.Machine, w io.Writer) error {
	dump := writer.New(w)

	if opts.Screen {
		if err := dump.Screen(machine.Screen); err != nil {
			return err
		}
	}
	if opts.Registers {
		if err := dump.Registers(machine.State); err != nil {
			return err
		}
	}
	if opts.Memory != "" {
		address, length, err := writer.ParseRange(opts.Memory)
		if err != nil {
			return fmt.Errorf("parsing memory range: %w", err)
		}
		if err := dump.Memory(machine.State, address, length); err != nil {
			return err
		}
	}

	if opts.SaveState != "" {
		if err := r.saveSnapshot(opts, machine); err != nil {
			return err
		}
	}
	if opts.Screenshot != "" {
		if err := r.saveScreenshot(opts, machine); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) saveSnapshot(opts options.Program, machine *config.Machine) error {
	file, err := os.Create(opts.SaveState)
	if err != nil {
		return fmt.Errorf("creating file '%s': %w", opts.SaveState, err)
	}
	if err := snapshot.Save(file, machine.State, machine.Screen); err != nil {
		_ = file.Close()
		return fmt.Errorf("saving snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing file '%s': %w", opts.SaveState, err)
	}
	r.logger.Debug("Saved snapshot", log.String("file", opts.SaveState))

	if opts.Verify {
		if err := verification.VerifySnapshot(r.logger, opts.SaveState, machine.State, machine.Screen); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		r.logger.Info("Verification successful")
	}
	return nil
}

func (r *Runner) saveScreenshot(opts options.Program, machine *config.Machine) error {
	format, err := screenshot.FormatFromPath(opts.Screenshot)
	if err != nil {
		return err
	}

	file, err := os.Create(opts.Screenshot)
	if err != nil {
		return fmt.Errorf("creating file '%s': %w", opts.Screenshot, err)
	}
	if err := screenshot.Write(file, machine.Screen, format, opts.Scale); err != nil {
		_ = file.Close()
		return fmt.Errorf("saving screenshot: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing file '%s': %w", opts.Screenshot, err)
	}
	r.logger.Debug("Saved screenshot", log.String("file", opts.Screenshot))
	return nil
}

// printInfo prints information about the file being run.
func (r *Runner) printInfo(opts options.Program, emuOpts options.Emulator, machine *config.Machine, kind loader.Kind) {
	if opts.Quiet {
		return
	}

	quirks := machine.CPU.Quirks()

	r.logger.Info("Running Chip-8 "+kind.String(),
		log.String("file", opts.Input),
		log.Int("cycles", opts.Cycles),
		log.Int("tick", emuOpts.TickInterval),
		log.Bool("loadstore_quirk", quirks.LoadStoreIncrementsIndex),
		log.Bool("vf_index_quirk", quirks.AddIndexOverflow),
	)
}

// PrintBanner prints application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("retrochip8", log.String("version", buildinfo.Version(version, commit, date)))
}
