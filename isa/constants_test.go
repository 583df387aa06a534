package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupABIResolvesAllThirtyTwoNames(t *testing.T) {
	for i, name := range ABINames {
		idx, ok := LookupABI(name)
		assert.True(t, ok, "ABI name %q should resolve", name)
		assert.Equal(t, i, idx)
	}
}

func TestLookupABIResolvesFPAliasToS0(t *testing.T) {
	idx, ok := LookupABI("fp")
	assert.True(t, ok)
	assert.Equal(t, 8, idx)
	assert.Equal(t, "s0", ABINames[idx])
}

func TestLookupABIRejectsUnknownName(t *testing.T) {
	_, ok := LookupABI("x32")
	assert.False(t, ok)

	_, ok = LookupABI("")
	assert.False(t, ok)
}

func TestABINamesHasNoDuplicates(t *testing.T) {
	seen := make(map[string]bool, len(ABINames))
	for _, name := range ABINames {
		assert.False(t, seen[name], "duplicate ABI name %q", name)
		seen[name] = true
	}
}

func TestImmediateRangesAreOrdered(t *testing.T) {
	assert.Less(t, ITypeImmMin, ITypeImmMax)
	assert.Less(t, STypeImmMin, STypeImmMax)
	assert.Less(t, BImmMin, BImmMax)
	assert.Less(t, UImmMin, UImmMax)
	assert.Less(t, JImmMin, JImmMax)
}

func TestAddSubAndShiftRightShareFunct3ButDifferFunct7(t *testing.T) {
	assert.Equal(t, F3AddSub, F3AddSub)
	assert.NotEqual(t, F7Add, F7Sub)
	assert.NotEqual(t, F7Srl, F7Sra)
	assert.Equal(t, F3SRLSRA, F3SRLSRA)
}
