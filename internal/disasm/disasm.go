// Package disasm formats CHIP-8 opcodes as assembly text.
// Instruction names and opcode patterns come from the retrogolib CHIP-8 tables.
package disasm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// sysName is the mnemonic of the ignored machine code routine call 0NNN,
// which the retrogolib tables do not contain.
const sysName = "sys"

// skipIndent prefixes instructions that a preceding skip instruction can skip.
const skipIndent = "  "

// kindNames maps the instruction kinds of the engine to mnemonics. It covers
// opcodes that the engine executes but the retrogolib tables do not list,
// like 0NNN or the masked variants 01E0 and 5XY1.
var kindNames = map[cpu.Kind]string{
	cpu.KindSys:             sysName,
	cpu.KindClearScreen:     chip8.ClsName,
	cpu.KindReturn:          chip8.RetName,
	cpu.KindJump:            chip8.JpName,
	cpu.KindCall:            chip8.CallName,
	cpu.KindSkipEqualImm:    chip8.SeName,
	cpu.KindSkipNotEqualImm: chip8.SneName,
	cpu.KindSkipEqualReg:    chip8.SeName,
	cpu.KindLoadImm:         chip8.LdName,
	cpu.KindAddImm:          chip8.AddName,
	cpu.KindLoadReg:         chip8.LdName,
	cpu.KindOr:              chip8.OrName,
	cpu.KindAnd:             chip8.AndName,
	cpu.KindXor:             chip8.XorName,
	cpu.KindAddReg:          chip8.AddName,
	cpu.KindSubReg:          chip8.SubName,
	cpu.KindShiftRight:      chip8.ShrName,
	cpu.KindSubReverse:      chip8.SubnName,
	cpu.KindShiftLeft:       chip8.ShlName,
	cpu.KindSkipNotEqualReg: chip8.SneName,
	cpu.KindLoadIndex:       chip8.LdName,
	cpu.KindJumpOffset:      chip8.JpName,
	cpu.KindRandom:          chip8.RndName,
	cpu.KindDraw:            chip8.DrwName,
	cpu.KindSkipKeyDown:     chip8.SkpName,
	cpu.KindSkipKeyUp:       chip8.SknpName,
	cpu.KindLoadDelay:       chip8.LdName,
	cpu.KindWaitKey:         chip8.LdName,
	cpu.KindSetDelay:        chip8.LdName,
	cpu.KindSetSound:        chip8.LdName,
	cpu.KindAddIndex:        chip8.AddName,
	cpu.KindLoadFont:        chip8.LdName,
	cpu.KindStoreBCD:        chip8.LdName,
	cpu.KindStoreRegisters:  chip8.LdName,
	cpu.KindLoadRegisters:   chip8.LdName,
}

// Lookup returns the opcode table entry matching the given opcode.
func Lookup(opcode uint16) (chip8.Opcode, bool) {
	firstNibble := (opcode & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&opcode == op.Info.Value && op.Instruction != nil {
			return op, true
		}
	}
	return chip8.Opcode{}, false
}

// Name returns the instruction name of the opcode, or an empty string for
// opcodes that the engine does not execute. Opcodes missing in the opcode
// table are named by the instruction kind that the engine decodes.
func Name(opcode uint16) string {
	if op, ok := Lookup(opcode); ok {
		return op.Instruction.Name
	}
	return kindNames[cpu.Decode(opcode)]
}

// IsSkip returns whether the opcode conditionally skips the next instruction.
func IsSkip(opcode uint16) bool {
	name := Name(opcode)
	return name != "" && chip8.SkipInstructions.Contains(name)
}

// Format returns the assembly representation of the opcode.
// Unknown opcodes are formatted as a data word.
func Format(opcode uint16) string {
	name := Name(opcode)
	if name == "" {
		return fmt.Sprintf(".word $%04X", opcode)
	}
	if params := formatInstruction(name, opcode); params != "" {
		return fmt.Sprintf("%s %s", name, params)
	}
	return name
}

// Listing writes one line per instruction word of the program, prefixed with
// its memory address and the opcode in hex. Instructions following a skip
// instruction are indented. A trailing odd byte is written as data.
func Listing(w io.Writer, program []byte, base uint16) error {
	bw := bufio.NewWriter(w)
	var indent string
	for i := 0; i < len(program); i += opcodeSize {
		address := base + uint16(i)
		if i+1 >= len(program) {
			if _, err := fmt.Fprintf(bw, "$%04X  %02X    %s.byte $%02X\n", address, program[i], indent, program[i]); err != nil {
				return fmt.Errorf("writing listing: %w", err)
			}
			break
		}

		opcode := uint16(program[i])<<8 | uint16(program[i+1])
		if _, err := fmt.Fprintf(bw, "$%04X  %04X  %s%s\n", address, opcode, indent, Format(opcode)); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}

		indent = ""
		if IsSkip(opcode) {
			indent = skipIndent
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing listing: %w", err)
	}
	return nil
}

// formatInstruction formats a CHIP-8 instruction with its parameters.
func formatInstruction(name string, opcode uint16) string {
	switch name {
	case chip8.ClsName, chip8.RetName:
		return "" // No parameters
	case chip8.JpName:
		return formatJumpInstruction(opcode)
	case chip8.CallName:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case chip8.SeName, chip8.SneName:
		return formatCompareInstruction(opcode)
	case chip8.LdName:
		return formatLoadInstruction(opcode)
	case chip8.AddName:
		return formatAddInstruction(opcode)
	case chip8.OrName, chip8.AndName, chip8.XorName, chip8.SubName, chip8.SubnName:
		return fmt.Sprintf("V%X, V%X", registerX(opcode), registerY(opcode))
	case chip8.ShrName, chip8.ShlName, chip8.SkpName, chip8.SknpName:
		return fmt.Sprintf("V%X", registerX(opcode))
	case chip8.RndName:
		return fmt.Sprintf("V%X, $%02X", registerX(opcode), opcode&0x00FF)
	case chip8.DrwName:
		return fmt.Sprintf("V%X, V%X, $%X", registerX(opcode), registerY(opcode), opcode&0x000F)
	}
	if opcode&0xF000 == 0x0000 {
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	}
	return ""
}

// formatJumpInstruction formats jump instructions (JP addr, JP V0+addr).
func formatJumpInstruction(opcode uint16) string {
	switch opcode & 0xF000 {
	case 0x1000:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case 0xB000:
		return fmt.Sprintf("V0, $%03X", opcode&0x0FFF)
	}
	return ""
}

// formatCompareInstruction formats comparison instructions (SE, SNE).
func formatCompareInstruction(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x3000, 0x4000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	}
	return ""
}

// formatLoadInstruction formats all load variants including the timer,
// keypad, font, BCD and register block transfers.
func formatLoadInstruction(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	case 0xA000:
		return fmt.Sprintf("I, $%03X", opcode&0x0FFF)
	case 0xF000:
		return formatLoadMisc(x, opcode&0x00FF)
	}
	return ""
}

func formatLoadMisc(x uint16, variant uint16) string {
	switch variant {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}

// formatAddInstruction formats add instructions (ADD Vx, byte/Vy, ADD I, Vx).
func formatAddInstruction(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x7000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	case 0xF000:
		return fmt.Sprintf("I, V%X", x)
	}
	return ""
}

// registerX extracts the X register nibble from a CHIP-8 opcode.
func registerX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

// registerY extracts the Y register nibble from a CHIP-8 opcode.
func registerY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
