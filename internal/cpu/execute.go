package cpu

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/state"
	"github.com/retroenv/retrogolib/log"
)

const (
	opcodeSize = 2
	spriteBits = 8
)

// execute runs a decoded instruction. Every fatal condition is checked
// before the state is changed.
//
//nolint:funlen,cyclop,gocyclo // one case per instruction kind
func (c *CPU) execute(ins Instruction) (Outcome, error) {
	s := c.state
	x, y := ins.X(), ins.Y()
	vx, vy := s.V[x], s.V[y]

	switch ins.Kind {
	case KindSys:
		// machine code routines of the host are not supported
		c.next()

	case KindClearScreen:
		c.screen.Clear()
		c.next()

	case KindReturn:
		if s.SP == 0 {
			return Fault, fmt.Errorf("%w: return at $%03X", ErrStackUnderflow, s.PC)
		}
		s.SP--
		s.PC = s.Stack[s.SP] + opcodeSize

	case KindJump:
		s.PC = ins.NNN()

	case KindCall:
		if int(s.SP) >= state.StackDepth {
			return Fault, fmt.Errorf("%w: call to $%03X at $%03X", ErrStackOverflow, ins.NNN(), s.PC)
		}
		s.Stack[s.SP] = s.PC
		s.SP++
		s.PC = ins.NNN()

	case KindSkipEqualImm:
		c.skipIf(vx == ins.NN())

	case KindSkipNotEqualImm:
		c.skipIf(vx != ins.NN())

	case KindSkipEqualReg:
		c.skipIf(vx == vy)

	case KindLoadImm:
		s.V[x] = ins.NN()
		c.next()

	case KindAddImm:
		s.V[x] = vx + ins.NN()
		c.next()

	case KindLoadReg:
		s.V[x] = vy
		c.next()

	case KindOr:
		s.V[x] = vx | vy
		c.next()

	case KindAnd:
		s.V[x] = vx & vy
		c.next()

	case KindXor:
		s.V[x] = vx ^ vy
		c.next()

	case KindAddReg:
		c.setFlag(uint16(vx)+uint16(vy) > 0xFF)
		s.V[x] = vx + vy
		c.next()

	case KindSubReg:
		c.setFlag(vx >= vy)
		s.V[x] = vx - vy
		c.next()

	case KindShiftRight:
		s.V[state.FlagRegister] = vx & 0x01
		s.V[x] = vx >> 1
		c.next()

	case KindSubReverse:
		c.setFlag(vy >= vx)
		s.V[x] = vy - vx
		c.next()

	case KindShiftLeft:
		s.V[state.FlagRegister] = vx >> 7
		s.V[x] = vx << 1
		c.next()

	case KindSkipNotEqualReg:
		c.skipIf(vx != vy)

	case KindLoadIndex:
		s.I = ins.NNN()
		c.next()

	case KindJumpOffset:
		s.PC = ins.NNN() + uint16(s.V[0])

	case KindRandom:
		s.V[x] = c.random.Byte() & ins.NN()
		c.next()

	case KindDraw:
		return c.draw(ins)

	case KindSkipKeyDown:
		c.skipIf(c.keys.IsDown(vx))

	case KindSkipKeyUp:
		c.skipIf(!c.keys.IsDown(vx))

	case KindLoadDelay:
		s.V[x] = s.Delay
		c.next()

	case KindWaitKey:
		return c.waitKey(x), nil

	case KindSetDelay:
		s.Delay = vx
		c.next()

	case KindSetSound:
		s.Sound = vx
		c.next()

	case KindAddIndex:
		sum := uint32(s.I) + uint32(vx)
		if c.quirks.AddIndexOverflow {
			c.setFlag(sum > state.MaxAddress)
		}
		s.I = uint16(sum)
		c.next()

	case KindLoadFont:
		s.I = state.FontAddress + uint16(vx&0x0F)*state.GlyphSize
		c.next()

	case KindStoreBCD:
		if err := checkRange("store bcd", s.I, 3); err != nil {
			return Fault, err
		}
		s.Memory[s.I] = vx / 100
		s.Memory[s.I+1] = (vx / 10) % 10
		s.Memory[s.I+2] = vx % 10
		c.next()

	case KindStoreRegisters:
		if err := checkRange("store registers", s.I, int(x)+1); err != nil {
			return Fault, err
		}
		copy(s.Memory[s.I:int(s.I)+int(x)+1], s.V[:x+1])
		c.advanceIndex(x)
		c.next()

	case KindLoadRegisters:
		if err := checkRange("load registers", s.I, int(x)+1); err != nil {
			return Fault, err
		}
		copy(s.V[:x+1], s.Memory[s.I:int(s.I)+int(x)+1])
		c.advanceIndex(x)
		c.next()

	default:
		c.logger.Warn("Unknown instruction",
			log.Hex("opcode", ins.Opcode),
			log.Hex("address", s.PC))
		c.next()
		return Unknown, nil
	}

	return Executed, nil
}

// draw XORs an 8 pixel wide sprite of N rows read from memory at I onto the
// screen at position VX, VY. Coordinates wrap around the screen edges.
// VF is set to 1 if any set pixel got unset.
func (c *CPU) draw(ins Instruction) (Outcome, error) {
	s := c.state
	rows := int(ins.N())
	if err := checkRange("draw", s.I, rows); err != nil {
		return Fault, err
	}

	originX, originY := int(s.V[ins.X()]), int(s.V[ins.Y()])
	width, height := c.screen.Width(), c.screen.Height()
	s.V[state.FlagRegister] = 0

	var collision bool
	for row := range rows {
		line := s.Memory[int(s.I)+row]
		for col := range spriteBits {
			if line&(0x80>>col) == 0 {
				continue
			}
			px := (originX + col) % width
			py := (originY + row) % height
			if c.screen.SetXor(px, py) {
				collision = true
			}
		}
	}

	c.setFlag(collision)
	c.next()
	return Executed, nil
}

// waitKey stores the lowest held key in VX and advances. The program counter
// is left unchanged if no key is held, so the instruction gets polled again.
func (c *CPU) waitKey(x uint8) Outcome {
	for key := range uint8(keypad.KeyCount) {
		if c.keys.IsDown(key) {
			c.state.V[x] = key
			c.next()
			return Executed
		}
	}
	return Waiting
}

func (c *CPU) advanceIndex(x uint8) {
	if c.quirks.LoadStoreIncrementsIndex {
		c.state.I += uint16(x) + 1
	}
}

func (c *CPU) setFlag(set bool) {
	if set {
		c.state.V[state.FlagRegister] = 1
	} else {
		c.state.V[state.FlagRegister] = 0
	}
}

func (c *CPU) next() {
	c.state.PC += opcodeSize
}

func (c *CPU) skipIf(condition bool) {
	if condition {
		c.state.PC += 2 * opcodeSize
	} else {
		c.state.PC += opcodeSize
	}
}
