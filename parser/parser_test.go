package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResolvesForwardLabel(t *testing.T) {
	source := "beq zero, zero, target\naddi a0, zero, 1\ntarget:\naddi a0, zero, 2\n"
	program, err := Parse(source, "t.s")
	require.NoError(t, err)

	addr, ok := program.SymbolTable.Lookup("target")
	require.True(t, ok)
	assert.Equal(t, uint32(8), addr, "two 4-byte instructions precede the label")
}

func TestParseExpandsLiLargeFormAcrossTwoWords(t *testing.T) {
	source := "li t0, 0x12345\naddi a0, zero, 1\n"
	program, err := Parse(source, "t.s")
	require.NoError(t, err)

	require.Len(t, program.Instructions, 3, "li expands to lui+addi, plus the trailing addi")
	assert.Equal(t, "lui", program.Instructions[0].Mnemonic)
	assert.Equal(t, "addi", program.Instructions[1].Mnemonic)
	assert.Equal(t, uint32(8), program.Instructions[2].Address)
}

func TestParseDuplicateLabelIsAnError(t *testing.T) {
	source := "start:\naddi a0, zero, 1\nstart:\naddi a0, zero, 2\n"
	_, err := Parse(source, "t.s")
	assert.Error(t, err)
}

func TestParseIgnoresBlankAndCommentLines(t *testing.T) {
	source := "# a full-line comment\n\naddi a0, zero, 1  # trailing comment\n"
	program, err := Parse(source, "t.s")
	require.NoError(t, err)
	require.Len(t, program.Instructions, 1)
	assert.Equal(t, "addi", program.Instructions[0].Mnemonic)
	assert.Equal(t, []string{"a0", "zero", "1"}, program.Instructions[0].Operands)
}

func TestParseLabelOnlyLineDoesNotConsumeAnInstructionSlot(t *testing.T) {
	source := "here:\naddi a0, zero, 1\n"
	program, err := Parse(source, "t.s")
	require.NoError(t, err)
	require.Len(t, program.Instructions, 1)
	addr, ok := program.SymbolTable.Lookup("here")
	require.True(t, ok)
	assert.Equal(t, uint32(0), addr)
}
