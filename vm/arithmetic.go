package vm

import "github.com/rv32isim/rv32i-emulator/isa"

// execRType evaluates an R-type ALU instruction and returns the value to
// write to rd. All arithmetic is modulo 2^32; signed operations canonicalize
// their operands to int32 first so the host's signed semantics apply.
func execRType(funct3 isa.Funct3, funct7 isa.Funct7, a, b uint32) uint32 {
	switch funct3 {
	case isa.F3AddSub:
		if funct7 == isa.F7Sub {
			return a - b
		}
		return a + b
	case isa.F3SLL:
		return a << (b & 0x1F)
	case isa.F3SLT:
		if int32(a) < int32(b) {
			return 1
		}
		return 0
	case isa.F3SLTU:
		if a < b {
			return 1
		}
		return 0
	case isa.F3XOR:
		return a ^ b
	case isa.F3SRLSRA:
		shamt := b & 0x1F
		if funct7 == isa.F7Sra {
			return uint32(int32(a) >> shamt)
		}
		return a >> shamt
	case isa.F3OR:
		return a | b
	case isa.F3AND:
		return a & b
	}
	return 0
}

// execIArith evaluates an I-type ALU-immediate instruction (addi/slti/
// sltiu/xori/ori/andi).
func execIArith(funct3 isa.Funct3, a uint32, imm int32) uint32 {
	b := uint32(imm)
	switch funct3 {
	case isa.F3AddSub:
		return a + b
	case isa.F3SLT:
		if int32(a) < imm {
			return 1
		}
		return 0
	case isa.F3SLTU:
		if a < b {
			return 1
		}
		return 0
	case isa.F3XOR:
		return a ^ b
	case isa.F3OR:
		return a | b
	case isa.F3AND:
		return a & b
	}
	return 0
}

// execIShift evaluates slli/srli/srai. shamt is already masked to 5 bits by
// the field codec.
func execIShift(funct3 isa.Funct3, funct7 isa.Funct7, a, shamt uint32) uint32 {
	if funct3 == isa.F3SLL {
		return a << shamt
	}
	if funct7 == isa.F7Sra {
		return uint32(int32(a) >> shamt)
	}
	return a >> shamt
}
