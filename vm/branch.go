package vm

import "github.com/rv32isim/rv32i-emulator/isa"

// evalBranch canonicalizes a and b to signed 32-bit for the signed
// conditions and reports whether the branch is taken.
func evalBranch(funct3 isa.Funct3, a, b uint32) bool {
	switch funct3 {
	case isa.F3BEQ:
		return a == b
	case isa.F3BNE:
		return a != b
	case isa.F3BLT:
		return int32(a) < int32(b)
	case isa.F3BGE:
		return int32(a) >= int32(b)
	case isa.F3BLTU:
		return a < b
	case isa.F3BGEU:
		return a >= b
	}
	return false
}
