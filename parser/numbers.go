package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumber parses a decimal, "0x" hex, or "0b" binary literal, with an
// optional leading '-', the numeric grammar shared by immediate operands
// and the assembler's own pseudo-instruction size calculations.
func ParseNumber(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty numeric literal")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	var value uint64
	var err error
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		value, err = strconv.ParseUint(s[2:], 16, 64)
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		value, err = strconv.ParseUint(s[2:], 2, 64)
	default:
		value, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid numeric literal %q: %w", s, err)
	}

	result := int64(value)
	if negative {
		result = -result
	}
	return result, nil
}
