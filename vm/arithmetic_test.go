package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rv32isim/rv32i-emulator/isa"
)

func TestExecRTypeAddSub(t *testing.T) {
	assert.Equal(t, uint32(7), execRType(isa.F3AddSub, isa.F7Add, 3, 4))
	assert.Equal(t, uint32(1), execRType(isa.F3AddSub, isa.F7Sub, 4, 3))
}

func TestExecRTypeSignedVsUnsignedCompare(t *testing.T) {
	negOne := uint32(0xFFFFFFFF)
	assert.Equal(t, uint32(1), execRType(isa.F3SLT, 0, negOne, 1), "-1 < 1 signed")
	assert.Equal(t, uint32(0), execRType(isa.F3SLTU, 0, negOne, 1), "0xFFFFFFFF > 1 unsigned")
}

func TestExecRTypeShiftsMaskTo5Bits(t *testing.T) {
	assert.Equal(t, uint32(2), execRType(isa.F3SLL, 0, 1, 33), "shift of 33 masks to 1")
}

func TestExecRTypeArithmeticVsLogicalShiftRight(t *testing.T) {
	negative := uint32(0x80000000)
	assert.Equal(t, uint32(0x40000000), execRType(isa.F3SRLSRA, 0, negative, 1), "srl fills with zero")
	assert.Equal(t, uint32(0xC0000000), execRType(isa.F3SRLSRA, isa.F7Sra, negative, 1), "sra fills with sign bit")
}

func TestExecIArithAddiWraps(t *testing.T) {
	assert.Equal(t, uint32(0), execIArith(isa.F3AddSub, 0xFFFFFFFF, 1), "modulo 2^32 wraparound")
}

func TestExecIArithSltiNegativeImmediate(t *testing.T) {
	assert.Equal(t, uint32(1), execIArith(isa.F3SLT, 0xFFFFFFFE, -1), "-2 < -1 signed")
	assert.Equal(t, uint32(0), execIArith(isa.F3SLT, 0, -1), "0 < -1 is false")
}

func TestExecIShiftSrliByMaxShamt(t *testing.T) {
	assert.Equal(t, uint32(1), execIShift(isa.F3SRLSRA, 0, 0x80000000, 31))
}
