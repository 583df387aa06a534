package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCollectsDefinitionAndBranchReference(t *testing.T) {
	source := `
loop:
addi a0, a0, 1
blt a0, a1, loop
`
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(source, "test.s")
	require.NoError(t, err)

	loop, ok := symbols["loop"]
	require.True(t, ok)
	assert.True(t, loop.IsDefined)
	require.Len(t, loop.References, 1)
	assert.Equal(t, RefBranch, loop.References[0].Type)
	assert.True(t, loop.IsBranchOnly)
}

func TestGenerateDetectsJumpReference(t *testing.T) {
	source := `
jal ra, target
addi a0, zero, 1
target:
addi a0, zero, 2
`
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(source, "test.s")
	require.NoError(t, err)

	target := symbols["target"]
	require.NotNil(t, target)
	require.Len(t, target.References, 1)
	assert.Equal(t, RefJump, target.References[0].Type)
	assert.False(t, target.IsBranchOnly, "a jump reference is not branch-only")
}

func TestGetUndefinedSymbolsReportsReferencedButMissingLabels(t *testing.T) {
	source := "jal ra, nowhere\n"
	gen := NewXRefGenerator()
	_, err := gen.Generate(source, "test.s")
	require.NoError(t, err)

	undefined := gen.GetUndefinedSymbols()
	require.Len(t, undefined, 1)
	assert.Equal(t, "nowhere", undefined[0].Name)
}

func TestGetUnusedSymbolsReportsDefinedButUnreferencedLabels(t *testing.T) {
	source := `
unused:
addi a0, zero, 1
`
	gen := NewXRefGenerator()
	_, err := gen.Generate(source, "test.s")
	require.NoError(t, err)

	unused := gen.GetUnusedSymbols()
	require.Len(t, unused, 1)
	assert.Equal(t, "unused", unused[0].Name)
}

func TestAddReferenceIgnoresABIRegisterNames(t *testing.T) {
	gen := NewXRefGenerator()
	gen.addReference("zero", RefBranch, 1)
	gen.addReference("my_label", RefBranch, 1)

	assert.NotContains(t, gen.symbols, "zero", "ABI register names are never tracked as symbols")
	assert.Contains(t, gen.symbols, "my_label")
}

func TestReportIncludesDefinedAddressAndReferenceLines(t *testing.T) {
	source := `
loop:
addi a0, a0, 1
blt a0, a1, loop
`
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(source, "test.s")
	require.NoError(t, err)

	out := Report(symbols)
	assert.Contains(t, out, "loop")
	assert.Contains(t, out, "defined line")
	assert.Contains(t, out, "branch")
}

func TestGenerateXRefReturnsParseError(t *testing.T) {
	source := `
dup:
addi a0, zero, 1
dup:
addi a0, zero, 2
`
	_, err := GenerateXRef(source, "test.s")
	assert.Error(t, err, "a duplicate label definition is a parse-time error")
}
