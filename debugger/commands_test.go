package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rv32isim/rv32i-emulator/assembler"
)

func newTestSession(t *testing.T, source string) *Session {
	t.Helper()
	image, err := assembler.Assemble(source)
	require.NoError(t, err)
	s := NewSession(4096)
	s.Load(image)
	return s
}

func TestCmdStepAdvancesOneInstruction(t *testing.T) {
	s := newTestSession(t, "addi a0, zero, 1\naddi a0, zero, 2\n")
	require.NoError(t, s.ExecuteCommand("step"))
	assert.Equal(t, uint32(4), s.VM.PC)
	assert.Contains(t, s.GetOutput(), "PC=0x00000004")
}

func TestCmdRunExecutesToHalt(t *testing.T) {
	s := newTestSession(t, "addi a0, zero, 1\n")
	require.NoError(t, s.ExecuteCommand("run"))
	assert.Contains(t, s.GetOutput(), "halted")
}

func TestCmdBreakStopsContinueAtAddress(t *testing.T) {
	s := newTestSession(t, "addi a0, zero, 1\naddi a0, zero, 2\naddi a0, zero, 3\n")
	require.NoError(t, s.ExecuteCommand("break 4"))
	s.GetOutput()
	require.NoError(t, s.ExecuteCommand("continue"))
	assert.Equal(t, uint32(4), s.VM.PC, "execution stops at the breakpoint before it runs")
	assert.Equal(t, uint32(1), s.VM.Regs[10], "only the first instruction executed")
}

func TestCmdPrintUnknownRegisterIsAnError(t *testing.T) {
	s := newTestSession(t, "addi a0, zero, 1\n")
	assert.Error(t, s.ExecuteCommand("print bogus"))
}

func TestCmdPrintKnownRegister(t *testing.T) {
	s := newTestSession(t, "addi a0, zero, 7\n")
	require.NoError(t, s.ExecuteCommand("step"))
	require.NoError(t, s.ExecuteCommand("print a0"))
	assert.Contains(t, s.GetOutput(), "a0 = 0x00000007")
}

func TestCmdStackShowsWordsAroundSP(t *testing.T) {
	s := newTestSession(t, "li sp, 100\nli t0, 0xCAFEBABE\nsw t0, 0(sp)\n")
	require.NoError(t, s.ExecuteCommand("run"))
	s.GetOutput()
	require.NoError(t, s.ExecuteCommand("stack"))
	out := s.GetOutput()
	assert.Contains(t, out, "sp=0x00000064")
	assert.Contains(t, out, "0xcafebabe")
}

func TestCmdListShowsWindowAroundTarget(t *testing.T) {
	s := newTestSession(t, "addi a0, zero, 1\naddi a0, zero, 2\naddi a0, zero, 3\n")
	require.NoError(t, s.ExecuteCommand("step"))
	s.GetOutput()
	require.NoError(t, s.ExecuteCommand("list"))
	out := s.GetOutput()
	assert.Contains(t, out, "-> 0x00000004", "current PC is marked")
	assert.Contains(t, out, "0x00000000", "window extends before the target address")
}

func TestCmdDeleteAllBreakpoints(t *testing.T) {
	s := newTestSession(t, "addi a0, zero, 1\n")
	require.NoError(t, s.ExecuteCommand("break 0"))
	require.NoError(t, s.ExecuteCommand("delete"))
	assert.Empty(t, s.Breakpoints.GetAllBreakpoints())
}

func TestUnknownCommandIsAnError(t *testing.T) {
	s := newTestSession(t, "addi a0, zero, 1\n")
	assert.Error(t, s.ExecuteCommand("frobnicate"))
}

func TestEmptyLineRepeatsLastCommand(t *testing.T) {
	s := newTestSession(t, "addi a0, zero, 1\naddi a0, zero, 2\n")
	require.NoError(t, s.ExecuteCommand("step"))
	s.GetOutput()
	require.NoError(t, s.ExecuteCommand(""))
	assert.Equal(t, uint32(8), s.VM.PC, "blank line re-runs 'step'")
}
