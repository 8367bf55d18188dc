// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags and returns program and emulator options
func ParseFlags() (options.Program, options.Emulator, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, options.Emulator{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Emulator{}, err
	}

	if opts.Input == "" {
		opts.Input = args[0]
	}

	if err := validateOptions(opts); err != nil {
		return opts, options.Emulator{}, err
	}

	keys, err := keypad.ParseKeys(opts.Keys)
	if err != nil {
		return opts, options.Emulator{}, fmt.Errorf("parsing keys: %w", err)
	}

	return opts, options.NewEmulator(opts, keys), nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the error message if set and otherwise the flag defaults.
func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Println(e.msg)
		return
	}
	fmt.Printf("usage: retrochip8 [options] <ROM or snapshot file>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to run, please pass the file to run as last argument", arg),
			}
		}
	}
	return nil
}

// validateOptions checks option values and combinations
func validateOptions(opts options.Program) error {
	if opts.Cycles < 0 {
		return fmt.Errorf("invalid cycle count %d", opts.Cycles)
	}
	if opts.TickInterval < 0 {
		return fmt.Errorf("invalid tick interval %d", opts.TickInterval)
	}
	if opts.Scale < 1 {
		return fmt.Errorf("invalid screenshot scale %d", opts.Scale)
	}
	if opts.Verify && opts.SaveState == "" {
		return errors.New("verification requires a snapshot file to be saved (-save)")
	}
	if opts.Monitor && opts.Disasm {
		return errors.New("options -monitor and -disasm can not be combined")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM or snapshot file")
	flags.StringVar(&opts.SaveState, "save", "", "name of the snapshot file to write after the run")
	flags.StringVar(&opts.Screenshot, "screenshot", "", "name of the .png or .bmp screenshot file to write after the run")
	flags.IntVar(&opts.Cycles, "cycles", options.DefaultCycles, "number of instructions to execute, 0 runs until interrupted")
	flags.IntVar(&opts.TickInterval, "tick", options.DefaultTickInterval, "number of instructions per 60 Hz timer tick")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator")
	flags.StringVar(&opts.Keys, "keys", "", "comma separated list of hex keypad keys held during the run, for example 1,a")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the saved snapshot by loading it and comparing it to the machine state")
	flags.BoolVar(&opts.Monitor, "monitor", false, "start the interactive monitor")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, requires -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.QuirkLoadStore, "quirk-loadstore", false, "FX55/FX65 increment I by X+1")
	flags.BoolVar(&opts.QuirkIndexOverflow, "quirk-vf-index", true, "FX1E sets VF when I overflows the address space")
	flags.BoolVar(&opts.Screen, "screen", false, "print the screen after the run")
	flags.BoolVar(&opts.Registers, "regs", false, "print the registers after the run")
	flags.StringVar(&opts.Memory, "mem", "", "print a memory range after the run, as hex address:length, for example 200:40")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly of the ROM instead of running it")
	flags.IntVar(&opts.Scale, "scale", options.DefaultScale, "pixel scale factor of the screenshot")
}
