package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPseudoJBecomesJalZero(t *testing.T) {
	var log []string
	inst, err := expandPseudo(1, "j", []string{"done"}, 0, &log)
	require.NoError(t, err)
	require.Len(t, inst, 1)
	assert.Equal(t, "jal", inst[0].Mnemonic)
	assert.Equal(t, []string{"zero", "done"}, inst[0].Operands)
	assert.Len(t, log, 1)
}

func TestExpandPseudoMvBecomesAddiZeroOffset(t *testing.T) {
	var log []string
	inst, err := expandPseudo(1, "mv", []string{"t0", "t1"}, 0, &log)
	require.NoError(t, err)
	assert.Equal(t, "addi", inst[0].Mnemonic)
	assert.Equal(t, []string{"t0", "t1", "0"}, inst[0].Operands)
}

func TestExpandPseudoRetBecomesJalrZeroRa(t *testing.T) {
	var log []string
	inst, err := expandPseudo(1, "ret", nil, 0, &log)
	require.NoError(t, err)
	assert.Equal(t, "jalr", inst[0].Mnemonic)
	assert.Equal(t, []string{"zero", "ra", "0"}, inst[0].Operands)
}

func TestExpandPseudoLiSmallFormIsOneAddi(t *testing.T) {
	var log []string
	inst, err := expandPseudo(1, "li", []string{"t0", "100"}, 0, &log)
	require.NoError(t, err)
	require.Len(t, inst, 1)
	assert.Equal(t, "addi", inst[0].Mnemonic)
}

func TestExpandPseudoLiLargeFormIsLuiThenAddi(t *testing.T) {
	var log []string
	inst, err := expandPseudo(1, "li", []string{"t0", "0x12345"}, 0, &log)
	require.NoError(t, err)
	require.Len(t, inst, 2)
	assert.Equal(t, "lui", inst[0].Mnemonic)
	assert.Equal(t, "addi", inst[1].Mnemonic)
	assert.Equal(t, uint32(4), inst[1].Address)
}

func TestExpandPseudoLiUpperBiasCompensatesSignExtension(t *testing.T) {
	// 0x1800 has bit 11 set: without the bias upper would be 1 and lower
	// 0x800, which addi would sign-extend to -2048. Verify round trip:
	// (upper << 12) + lower must reconstruct the original immediate, where
	// lower is itself sign-extended by the addi that consumes it.
	var log []string
	inst, err := expandPseudo(1, "li", []string{"t0", "0x1800"}, 0, &log)
	require.NoError(t, err)
	require.Len(t, inst, 2)
	assert.Equal(t, []string{"t0", "2"}, inst[0].Operands, "upper = (0x1800+0x800)>>12 = 2")
	assert.Equal(t, []string{"t0", "t0", "-2048"}, inst[1].Operands, "lower = 0x1800 - (2<<12) = -2048")
}

func TestLiLargeFormSizeMatchesExpansion(t *testing.T) {
	assert.Equal(t, 4, liLargeFormSize([]string{"t0", "100"}))
	assert.Equal(t, 8, liLargeFormSize([]string{"t0", "0x12345"}))
}

func TestIsPseudoRecognizesAllFive(t *testing.T) {
	for _, m := range []string{"j", "mv", "nop", "ret", "li"} {
		assert.True(t, isPseudo(m), m)
	}
	assert.False(t, isPseudo("addi"))
}
