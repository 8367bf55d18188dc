package cpu

// Kind identifies one of the 35 CHIP-8 instructions.
type Kind uint8

// All instruction kinds, named after their effect. The comment lists the opcode pattern.
const (
	KindUnknown Kind = iota

	KindSys             // 0NNN
	KindClearScreen     // 00E0
	KindReturn          // 00EE
	KindJump            // 1NNN
	KindCall            // 2NNN
	KindSkipEqualImm    // 3XNN
	KindSkipNotEqualImm // 4XNN
	KindSkipEqualReg    // 5XY0
	KindLoadImm         // 6XNN
	KindAddImm          // 7XNN
	KindLoadReg         // 8XY0
	KindOr              // 8XY1
	KindAnd             // 8XY2
	KindXor             // 8XY3
	KindAddReg          // 8XY4
	KindSubReg          // 8XY5
	KindShiftRight      // 8XY6
	KindSubReverse      // 8XY7
	KindShiftLeft       // 8XYE
	KindSkipNotEqualReg // 9XY0
	KindLoadIndex       // ANNN
	KindJumpOffset      // BNNN
	KindRandom          // CXNN
	KindDraw            // DXYN
	KindSkipKeyDown     // EX9E
	KindSkipKeyUp       // EXA1
	KindLoadDelay       // FX07
	KindWaitKey         // FX0A
	KindSetDelay        // FX15
	KindSetSound        // FX18
	KindAddIndex        // FX1E
	KindLoadFont        // FX29
	KindStoreBCD        // FX33
	KindStoreRegisters  // FX55
	KindLoadRegisters   // FX65

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:         "unknown",
	KindSys:             "sys",
	KindClearScreen:     "cls",
	KindReturn:          "ret",
	KindJump:            "jp",
	KindCall:            "call",
	KindSkipEqualImm:    "se_imm",
	KindSkipNotEqualImm: "sne_imm",
	KindSkipEqualReg:    "se_reg",
	KindLoadImm:         "ld_imm",
	KindAddImm:          "add_imm",
	KindLoadReg:         "ld_reg",
	KindOr:              "or",
	KindAnd:             "and",
	KindXor:             "xor",
	KindAddReg:          "add_reg",
	KindSubReg:          "sub",
	KindShiftRight:      "shr",
	KindSubReverse:      "subn",
	KindShiftLeft:       "shl",
	KindSkipNotEqualReg: "sne_reg",
	KindLoadIndex:       "ld_i",
	KindJumpOffset:      "jp_v0",
	KindRandom:          "rnd",
	KindDraw:            "drw",
	KindSkipKeyDown:     "skp",
	KindSkipKeyUp:       "sknp",
	KindLoadDelay:       "ld_dt_read",
	KindWaitKey:         "ld_key",
	KindSetDelay:        "ld_dt",
	KindSetSound:        "ld_st",
	KindAddIndex:        "add_i",
	KindLoadFont:        "ld_f",
	KindStoreBCD:        "ld_b",
	KindStoreRegisters:  "ld_store",
	KindLoadRegisters:   "ld_load",
}

// String returns a short unique name of the instruction kind.
func (k Kind) String() string {
	if k >= kindCount {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// decodeTier maps the masked opcode bits to an instruction kind.
type decodeTier struct {
	mask  uint16
	kinds map[uint16]Kind
}

// decodeTiers are tried in order, the first tier containing the masked opcode wins.
// Instruction families sharing the top nibble 0x0, 0x8, 0xE and 0xF are only
// distinguishable by their lower bits, so the most specific masks come first.
var decodeTiers = [...]decodeTier{
	{
		mask: 0xF0FF,
		kinds: map[uint16]Kind{
			0x00E0: KindClearScreen,
			0x00EE: KindReturn,
			0xE09E: KindSkipKeyDown,
			0xE0A1: KindSkipKeyUp,
			0xF007: KindLoadDelay,
			0xF00A: KindWaitKey,
			0xF015: KindSetDelay,
			0xF018: KindSetSound,
			0xF01E: KindAddIndex,
			0xF029: KindLoadFont,
			0xF033: KindStoreBCD,
			0xF055: KindStoreRegisters,
			0xF065: KindLoadRegisters,
		},
	},
	{
		mask: 0xF00F,
		kinds: map[uint16]Kind{
			0x8000: KindLoadReg,
			0x8001: KindOr,
			0x8002: KindAnd,
			0x8003: KindXor,
			0x8004: KindAddReg,
			0x8005: KindSubReg,
			0x8006: KindShiftRight,
			0x8007: KindSubReverse,
			0x800E: KindShiftLeft,
		},
	},
	{
		mask: 0xF000,
		kinds: map[uint16]Kind{
			0x0000: KindSys,
			0x1000: KindJump,
			0x2000: KindCall,
			0x3000: KindSkipEqualImm,
			0x4000: KindSkipNotEqualImm,
			0x5000: KindSkipEqualReg,
			0x6000: KindLoadImm,
			0x7000: KindAddImm,
			0x9000: KindSkipNotEqualReg,
			0xA000: KindLoadIndex,
			0xB000: KindJumpOffset,
			0xC000: KindRandom,
			0xD000: KindDraw,
		},
	},
}

// Decode classifies an opcode. It returns KindUnknown if no tier matches.
func Decode(opcode uint16) Kind {
	for _, tier := range decodeTiers {
		if kind, ok := tier.kinds[opcode&tier.mask]; ok {
			return kind
		}
	}
	return KindUnknown
}

// Instruction is a decoded opcode.
type Instruction struct {
	Kind   Kind
	Opcode uint16
}

// NewInstruction decodes the given opcode.
func NewInstruction(opcode uint16) Instruction {
	return Instruction{
		Kind:   Decode(opcode),
		Opcode: opcode,
	}
}

// X returns the register index encoded in the second nibble.
func (i Instruction) X() uint8 {
	return uint8(i.Opcode>>8) & 0xF
}

// Y returns the register index encoded in the third nibble.
func (i Instruction) Y() uint8 {
	return uint8(i.Opcode>>4) & 0xF
}

// N returns the lowest nibble.
func (i Instruction) N() uint8 {
	return uint8(i.Opcode) & 0xF
}

// NN returns the lowest byte.
func (i Instruction) NN() uint8 {
	return uint8(i.Opcode)
}

// NNN returns the 12 bit address.
func (i Instruction) NNN() uint16 {
	return i.Opcode & 0x0FFF
}
