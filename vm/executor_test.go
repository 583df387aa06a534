package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rv32isim/rv32i-emulator/encoder"
	"github.com/rv32isim/rv32i-emulator/isa"
)

func TestStepHaltsOnZeroWord(t *testing.T) {
	v := NewVM(16)
	v.LoadProgram([]uint32{0})
	assert.False(t, v.Step())
	assert.Equal(t, uint32(0), v.PC, "halted before PC advanced")
}

func TestStepHaltsWhenPCRunsOffTheEndOfMemory(t *testing.T) {
	addi := encoder.PackI(1, 0, isa.F3AddSub, 1, isa.OpIMM)
	v := NewVM(4)
	v.LoadProgram([]uint32{addi})
	assert.True(t, v.Step(), "first instruction executes")
	assert.False(t, v.Step(), "PC is now 4, at the end of a 4-byte memory")
}

func TestStepHaltsOnMisalignedPC(t *testing.T) {
	v := NewVM(16)
	v.PC = 1
	assert.False(t, v.Step())
}

func TestStepAdvancesCyclesAndKeepsX0Zero(t *testing.T) {
	addi := encoder.PackI(5, 0, isa.F3AddSub, 0, isa.OpIMM) // destined for x0
	v := NewVM(16)
	v.LoadProgram([]uint32{addi})
	v.Step()
	assert.Equal(t, uint32(0), v.Regs[0])
	assert.Equal(t, uint64(1), v.Cycles)
}

func TestRunStopsAtMaxCycles(t *testing.T) {
	jal := encoder.PackJ(0, 0, isa.OpJAL) // infinite self-loop
	v := NewVM(16)
	v.LoadProgram([]uint32{jal})
	steps := v.Run(10)
	assert.Equal(t, 10, steps)
}

func TestResetReloadsProgramAndZeroesState(t *testing.T) {
	addi := encoder.PackI(1, 0, isa.F3AddSub, 1, isa.OpIMM)
	v := NewVM(16)
	v.LoadProgram([]uint32{addi})
	v.Step()
	assert.NotEqual(t, uint32(0), v.Regs[1])

	v.Reset()
	assert.Equal(t, uint32(0), v.Regs[1])
	assert.Equal(t, uint32(0), v.PC)
	assert.Equal(t, uint64(0), v.Cycles)

	word, ok := v.Mem.ReadWord(0)
	assert.True(t, ok)
	assert.Equal(t, addi, word, "program image is restored after Reset")
}
