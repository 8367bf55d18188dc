package cpu

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

var canonicalOpcodes = map[Kind]uint16{
	KindSys:             0x0123,
	KindClearScreen:     0x00E0,
	KindReturn:          0x00EE,
	KindJump:            0x1234,
	KindCall:            0x2345,
	KindSkipEqualImm:    0x3A12,
	KindSkipNotEqualImm: 0x4B34,
	KindSkipEqualReg:    0x5120,
	KindLoadImm:         0x6A05,
	KindAddImm:          0x7A03,
	KindLoadReg:         0x8120,
	KindOr:              0x8121,
	KindAnd:             0x8122,
	KindXor:             0x8123,
	KindAddReg:          0x8124,
	KindSubReg:          0x8125,
	KindShiftRight:      0x8126,
	KindSubReverse:      0x8127,
	KindShiftLeft:       0x812E,
	KindSkipNotEqualReg: 0x9120,
	KindLoadIndex:       0xA2F0,
	KindJumpOffset:      0xB300,
	KindRandom:          0xC30F,
	KindDraw:            0xD125,
	KindSkipKeyDown:     0xE19E,
	KindSkipKeyUp:       0xE2A1,
	KindLoadDelay:       0xF307,
	KindWaitKey:         0xF40A,
	KindSetDelay:        0xF515,
	KindSetSound:        0xF618,
	KindAddIndex:        0xF71E,
	KindLoadFont:        0xF829,
	KindStoreBCD:        0xF933,
	KindStoreRegisters:  0xF355,
	KindLoadRegisters:   0xFA65,
}

func TestKinds(t *testing.T) {
	assert.Equal(t, 35, int(kindCount-1))
	assert.Len(t, canonicalOpcodes, 35)

	for kind := KindUnknown + 1; kind < kindCount; kind++ {
		opcode, ok := canonicalOpcodes[kind]
		assert.True(t, ok, "missing canonical opcode for "+kind.String())
		assert.Equal(t, kind, Decode(opcode))
	}
}

func TestKindNamesUnique(t *testing.T) {
	names := map[string]Kind{}
	for kind := KindUnknown + 1; kind < kindCount; kind++ {
		name := kind.String()
		_, duplicate := names[name]
		assert.False(t, duplicate, "duplicate name "+name)
		names[name] = kind
	}
	assert.Equal(t, "unknown", Kind(200).String())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		want   Kind
	}{
		{"clear screen before sys", 0x00E0, KindClearScreen},
		{"return before sys", 0x00EE, KindReturn},
		{"second nibble is masked for cls", 0x01E0, KindClearScreen},
		{"sys with other low byte", 0x01E1, KindSys},
		{"zero word", 0x0000, KindSys},
		{"skip equal register ignores low nibble", 0x5121, KindSkipEqualReg},
		{"arithmetic with high registers", 0x8FE4, KindAddReg},
		{"undefined arithmetic", 0x8008, KindUnknown},
		{"undefined arithmetic 8XYF", 0x812F, KindUnknown},
		{"undefined key instruction", 0xE000, KindUnknown},
		{"undefined misc instruction", 0xF000, KindUnknown},
		{"all bits set", 0xFFFF, KindUnknown},
		{"store registers with X", 0xFF55, KindStoreRegisters},
		{"skip key with X", 0xEF9E, KindSkipKeyDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.opcode))
		})
	}
}

func TestInstructionFields(t *testing.T) {
	ins := NewInstruction(0xD12F)

	assert.Equal(t, KindDraw, ins.Kind)
	assert.Equal(t, uint8(0x1), ins.X())
	assert.Equal(t, uint8(0x2), ins.Y())
	assert.Equal(t, uint8(0xF), ins.N())
	assert.Equal(t, uint8(0x2F), ins.NN())
	assert.Equal(t, uint16(0x12F), ins.NNN())
}
