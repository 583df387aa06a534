package assembler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rv32isim/rv32i-emulator/assembler"
	"github.com/rv32isim/rv32i-emulator/isa"
	"github.com/rv32isim/rv32i-emulator/vm"
)

func assembleAndRun(t *testing.T, source string) *vm.VM {
	t.Helper()
	image, err := assembler.Assemble(source)
	require.NoError(t, err)

	machine := vm.NewVM(vm.DefaultMemSize)
	machine.LoadProgram(image.Words)
	machine.Run(vm.DefaultMaxCycles)
	return machine
}

func reg(machine *vm.VM, abiName string) uint32 {
	idx, _ := isa.LookupABI(abiName)
	return machine.Regs[idx]
}

func TestAddImmediateHaltsAtFour(t *testing.T) {
	machine := assembleAndRun(t, "addi t0, x0, 10\n")
	assert.Equal(t, uint32(10), reg(machine, "t0"))
	assert.Equal(t, uint32(4), machine.PC)
}

func TestLiLargeFormLoadsFullImmediate(t *testing.T) {
	machine := assembleAndRun(t, "li t0, 0x12345\nli t1, 65536\n")
	assert.Equal(t, uint32(0x12345), reg(machine, "t0"))
	assert.Equal(t, uint32(65536), reg(machine, "t1"))
}

func TestRTypeArithmetic(t *testing.T) {
	machine := assembleAndRun(t, "li t0,7\nli t1,3\nsub t2,t0,t1\nand t3,t0,t1\n")
	assert.Equal(t, uint32(4), reg(machine, "t2"))
	assert.Equal(t, uint32(3), reg(machine, "t3"))
}

func TestMemorySignAndZeroExtension(t *testing.T) {
	machine := assembleAndRun(t, "li s0,100\nli s1,0xDEADBEEF\nsw s1,0(s0)\nlb t0,0(s0)\nlbu t1,0(s0)\n")
	assert.Equal(t, uint32(0xFFFFFFEF), reg(machine, "t0"), "lb sign-extends 0xEF to -17")
	assert.Equal(t, uint32(239), reg(machine, "t1"), "lbu zero-extends 0xEF to 239")
}

func TestBranchTaken(t *testing.T) {
	source := `
li s0,10
li s1,10
beq s0,s1,L
addi a0,zero,1
L:
addi a0,zero,42
`
	machine := assembleAndRun(t, source)
	assert.Equal(t, uint32(42), reg(machine, "a0"))
}

func TestBranchNotTaken(t *testing.T) {
	source := `
li s0,10
li s1,11
beq s0,s1,L
addi a0,zero,1
L:
addi a0,zero,42
`
	machine := assembleAndRun(t, source)
	assert.Equal(t, uint32(42), reg(machine, "a0"), "fallthrough still reaches L")
}

func TestFunctionCallPreservesStackAndSetsS0(t *testing.T) {
	source := `
li sp, 1000
li a0, 5
jal ra, func
j end
func:
addi sp, sp, -4
sw ra, 0(sp)
li s0, 50
lw ra, 0(sp)
addi sp, sp, 4
ret
end:
`
	machine := assembleAndRun(t, source)
	assert.Equal(t, uint32(50), reg(machine, "s0"))
	assert.Equal(t, uint32(5), reg(machine, "a0"))
	assert.Equal(t, uint32(1000), reg(machine, "sp"))
}

func TestUndefinedLabelIsAssemblyError(t *testing.T) {
	_, err := assembler.Assemble("jal ra, nowhere\n")
	require.Error(t, err)
}

func TestOutOfRangeImmediateIsAssemblyError(t *testing.T) {
	_, err := assembler.Assemble("addi t0, zero, 4096\n")
	require.Error(t, err)
}
