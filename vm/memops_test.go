package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rv32isim/rv32i-emulator/isa"
)

func TestExecLoadSignAndZeroExtension(t *testing.T) {
	v := NewVM(16)
	v.Mem.WriteByte(0, 0xFE) // -2 as int8

	signed, ok := v.execLoad(isa.F3LB, 0)
	assert.True(t, ok)
	assert.Equal(t, uint32(0xFFFFFFFE), signed)

	unsigned, ok := v.execLoad(isa.F3LBU, 0)
	assert.True(t, ok)
	assert.Equal(t, uint32(0xFE), unsigned)
}

func TestExecLoadHalfwordSignExtension(t *testing.T) {
	v := NewVM(16)
	v.Mem.WriteHalf(0, 0x8000) // -32768 as int16

	signed, ok := v.execLoad(isa.F3LH, 0)
	assert.True(t, ok)
	assert.Equal(t, uint32(0xFFFF8000), signed)

	unsigned, ok := v.execLoad(isa.F3LHU, 0)
	assert.True(t, ok)
	assert.Equal(t, uint32(0x8000), unsigned)
}

func TestExecLoadOutOfBoundsReportsNotOK(t *testing.T) {
	v := NewVM(4)
	_, ok := v.execLoad(isa.F3LW, 4)
	assert.False(t, ok)
}

func TestExecStoreOutOfBoundsLeavesMemoryUnchanged(t *testing.T) {
	v := NewVM(4)
	v.Mem.WriteWord(0, 0x11223344)
	ok := v.execStore(isa.F3SW, 4, 0xFFFFFFFF)
	assert.False(t, ok)
	word, _ := v.Mem.ReadWord(0)
	assert.Equal(t, uint32(0x11223344), word)
}
