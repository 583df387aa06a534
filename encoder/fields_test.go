package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rv32isim/rv32i-emulator/isa"
)

func TestPackUnpackR(t *testing.T) {
	word := PackR(isa.F7Sub, 7, 5, isa.F3AddSub, 3, isa.OpREG)
	funct7, rs2, rs1, funct3, rd := UnpackR(word)
	assert.Equal(t, isa.F7Sub, funct7)
	assert.Equal(t, uint32(7), rs2)
	assert.Equal(t, uint32(5), rs1)
	assert.Equal(t, isa.F3AddSub, funct3)
	assert.Equal(t, uint32(3), rd)
}

func TestPackUnpackINegative(t *testing.T) {
	word := PackI(-1, 1, isa.F3AddSub, 2, isa.OpIMM)
	imm, rs1, funct3, rd := UnpackI(word)
	assert.Equal(t, int32(-1), imm)
	assert.Equal(t, uint32(1), rs1)
	assert.Equal(t, isa.F3AddSub, funct3)
	assert.Equal(t, uint32(2), rd)
}

func TestPackUnpackS(t *testing.T) {
	word := PackS(-4, 9, 8, isa.F3SW, isa.OpSTORE)
	imm, rs2, rs1, funct3 := UnpackS(word)
	assert.Equal(t, int32(-4), imm)
	assert.Equal(t, uint32(9), rs2)
	assert.Equal(t, uint32(8), rs1)
	assert.Equal(t, isa.F3SW, funct3)
}

func TestPackUnpackBRoundTrip(t *testing.T) {
	for _, imm := range []int32{-4096, -2, 0, 2, 4094} {
		word := PackB(imm, 6, 5, isa.F3BEQ, isa.OpBRANCH)
		got, rs2, rs1, funct3 := UnpackB(word)
		assert.Equal(t, imm, got, "imm=%d", imm)
		assert.Equal(t, uint32(6), rs2)
		assert.Equal(t, uint32(5), rs1)
		assert.Equal(t, isa.F3BEQ, funct3)
	}
}

func TestPackUnpackJRoundTrip(t *testing.T) {
	for _, imm := range []int32{-1048576, -2, 0, 2, 1048574} {
		word := PackJ(imm, 1, isa.OpJAL)
		got, rd := UnpackJ(word)
		assert.Equal(t, imm, got, "imm=%d", imm)
		assert.Equal(t, uint32(1), rd)
	}
}

func TestPackUnpackU(t *testing.T) {
	word := PackU(0x12345, 10, isa.OpLUI)
	imm, rd := UnpackU(word)
	assert.Equal(t, uint32(0x12345000), imm)
	assert.Equal(t, uint32(10), rd)
}

func TestSignExtend12(t *testing.T) {
	assert.Equal(t, int32(-1), SignExtend12(0xFFF))
	assert.Equal(t, int32(2047), SignExtend12(0x7FF))
	assert.Equal(t, int32(-2048), SignExtend12(0x800))
}

func TestSignExtend21(t *testing.T) {
	assert.Equal(t, int32(-2), SignExtend21(0x1FFFFE))
	assert.Equal(t, int32(0), SignExtend21(0))
}
