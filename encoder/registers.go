package encoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rv32isim/rv32i-emulator/isa"
)

// parseRegister resolves a register operand, either an ABI name ("sp",
// "a0", "fp", ...) or the "x<0..31>" form, to its 0..31 index.
func parseRegister(name string) (uint32, error) {
	name = strings.TrimSpace(name)

	if idx, ok := isa.LookupABI(name); ok {
		return uint32(idx), nil
	}

	if strings.HasPrefix(name, "x") {
		n, err := strconv.Atoi(name[1:])
		if err != nil || n < 0 || n > 31 {
			return 0, fmt.Errorf("invalid register: %s", name)
		}
		return uint32(n), nil
	}

	return 0, fmt.Errorf("unknown register name: %s", name)
}

// parseMemOperand splits "offset(reg)" into its immediate offset and base
// register.
func parseMemOperand(operand string) (offset string, reg string, err error) {
	operand = strings.TrimSpace(operand)
	open := strings.IndexByte(operand, '(')
	close := strings.IndexByte(operand, ')')
	if open < 0 || close < 0 || close < open {
		return "", "", fmt.Errorf("malformed memory operand: %s", operand)
	}
	offset = strings.TrimSpace(operand[:open])
	reg = strings.TrimSpace(operand[open+1 : close])
	if offset == "" {
		offset = "0"
	}
	return offset, reg, nil
}
