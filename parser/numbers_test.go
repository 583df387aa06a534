package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumberDecimal(t *testing.T) {
	v, err := ParseNumber("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
}

func TestParseNumberHex(t *testing.T) {
	v, err := ParseNumber("0x1A")
	require.NoError(t, err)
	assert.Equal(t, int64(26), v)
}

func TestParseNumberBinary(t *testing.T) {
	v, err := ParseNumber("0b101")
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
}

func TestParseNumberNegative(t *testing.T) {
	v, err := ParseNumber("-0x10")
	require.NoError(t, err)
	assert.Equal(t, int64(-16), v)
}

func TestParseNumberRejectsGarbage(t *testing.T) {
	_, err := ParseNumber("not-a-number")
	assert.Error(t, err)
}

func TestParseNumberRejectsEmpty(t *testing.T) {
	_, err := ParseNumber("")
	assert.Error(t, err)
}
