// Package disasm renders a machine word as canonical RV32I assembly text
// using ABI register names. Disassemble is a pure function of (word,
// address) and the isa tables.
package disasm

import (
	"fmt"

	"github.com/rv32isim/rv32i-emulator/encoder"
	"github.com/rv32isim/rv32i-emulator/isa"
)

func reg(idx uint32) string {
	return isa.ABINames[idx&isa.RegMask]
}

// Disassemble renders the instruction at word, fetched from address addr,
// as a single line of RV32I assembly. Unknown opcode/funct3/funct7
// combinations fall back to "; unknown (0x........)".
func Disassemble(word, addr uint32) string {
	opcode := isa.Opcode(word & isa.OpcodeMask)

	switch opcode {
	case isa.OpREG:
		funct7, rs2, rs1, funct3, rd := encoder.UnpackR(word)
		return disasmRType(funct3, funct7, rd, rs1, rs2, word)

	case isa.OpIMM:
		imm, rs1, funct3, rd := encoder.UnpackI(word)
		if funct3 == isa.F3SLL || funct3 == isa.F3SRLSRA {
			shamt := uint32(imm) & 0x1F
			funct7 := isa.Funct7((word >> isa.Funct7Shift) & isa.Funct7Mask)
			return disasmIShift(funct3, funct7, rd, rs1, shamt, word)
		}
		return disasmIArith(funct3, rd, rs1, imm, word)

	case isa.OpJALR:
		imm, rs1, _, rd := encoder.UnpackI(word)
		return fmt.Sprintf("jalr %s, %d(%s)", reg(rd), imm, reg(rs1))

	case isa.OpLUI:
		imm, rd := encoder.UnpackU(word)
		return fmt.Sprintf("lui %s, %d", reg(rd), imm>>12)

	case isa.OpAUIPC:
		imm, rd := encoder.UnpackU(word)
		return fmt.Sprintf("auipc %s, %d", reg(rd), imm>>12)

	case isa.OpLOAD:
		imm, rs1, funct3, rd := encoder.UnpackI(word)
		return disasmLoad(funct3, rd, rs1, imm, word)

	case isa.OpSTORE:
		imm, rs2, rs1, funct3 := encoder.UnpackS(word)
		return disasmStore(funct3, rs2, rs1, imm, word)

	case isa.OpBRANCH:
		imm, rs2, rs1, funct3 := encoder.UnpackB(word)
		return disasmBranch(funct3, rs1, rs2, addr, imm, word)

	case isa.OpJAL:
		imm, rd := encoder.UnpackJ(word)
		target := uint32(int64(addr) + int64(imm))
		return fmt.Sprintf("jal %s, 0x%08x", reg(rd), target)

	default:
		return unknown(word)
	}
}

func unknown(word uint32) string {
	return fmt.Sprintf("; unknown (0x%08x)", word)
}

func disasmRType(funct3 isa.Funct3, funct7 isa.Funct7, rd, rs1, rs2 uint32, word uint32) string {
	switch funct3 {
	case isa.F3AddSub:
		if funct7 == isa.F7Sub {
			return fmt.Sprintf("sub %s, %s, %s", reg(rd), reg(rs1), reg(rs2))
		}
		return fmt.Sprintf("add %s, %s, %s", reg(rd), reg(rs1), reg(rs2))
	case isa.F3SLL:
		return fmt.Sprintf("sll %s, %s, %s", reg(rd), reg(rs1), reg(rs2))
	case isa.F3SLT:
		return fmt.Sprintf("slt %s, %s, %s", reg(rd), reg(rs1), reg(rs2))
	case isa.F3SLTU:
		return fmt.Sprintf("sltu %s, %s, %s", reg(rd), reg(rs1), reg(rs2))
	case isa.F3XOR:
		return fmt.Sprintf("xor %s, %s, %s", reg(rd), reg(rs1), reg(rs2))
	case isa.F3SRLSRA:
		if funct7 == isa.F7Sra {
			return fmt.Sprintf("sra %s, %s, %s", reg(rd), reg(rs1), reg(rs2))
		}
		return fmt.Sprintf("srl %s, %s, %s", reg(rd), reg(rs1), reg(rs2))
	case isa.F3OR:
		return fmt.Sprintf("or %s, %s, %s", reg(rd), reg(rs1), reg(rs2))
	case isa.F3AND:
		return fmt.Sprintf("and %s, %s, %s", reg(rd), reg(rs1), reg(rs2))
	default:
		return unknown(word)
	}
}

func disasmIArith(funct3 isa.Funct3, rd, rs1 uint32, imm int32, word uint32) string {
	switch funct3 {
	case isa.F3AddSub:
		return fmt.Sprintf("addi %s, %s, %d", reg(rd), reg(rs1), imm)
	case isa.F3SLT:
		return fmt.Sprintf("slti %s, %s, %d", reg(rd), reg(rs1), imm)
	case isa.F3SLTU:
		return fmt.Sprintf("sltiu %s, %s, %d", reg(rd), reg(rs1), imm)
	case isa.F3XOR:
		return fmt.Sprintf("xori %s, %s, %d", reg(rd), reg(rs1), imm)
	case isa.F3OR:
		return fmt.Sprintf("ori %s, %s, %d", reg(rd), reg(rs1), imm)
	case isa.F3AND:
		return fmt.Sprintf("andi %s, %s, %d", reg(rd), reg(rs1), imm)
	default:
		return unknown(word)
	}
}

func disasmIShift(funct3 isa.Funct3, funct7 isa.Funct7, rd, rs1, shamt uint32, word uint32) string {
	if funct3 == isa.F3SLL {
		return fmt.Sprintf("slli %s, %s, %d", reg(rd), reg(rs1), shamt)
	}
	if funct7 == isa.F7Sra {
		return fmt.Sprintf("srai %s, %s, %d", reg(rd), reg(rs1), shamt)
	}
	return fmt.Sprintf("srli %s, %s, %d", reg(rd), reg(rs1), shamt)
}

func disasmLoad(funct3 isa.Funct3, rd, rs1 uint32, imm int32, word uint32) string {
	switch funct3 {
	case isa.F3LB:
		return fmt.Sprintf("lb %s, %d(%s)", reg(rd), imm, reg(rs1))
	case isa.F3LH:
		return fmt.Sprintf("lh %s, %d(%s)", reg(rd), imm, reg(rs1))
	case isa.F3LW:
		return fmt.Sprintf("lw %s, %d(%s)", reg(rd), imm, reg(rs1))
	case isa.F3LBU:
		return fmt.Sprintf("lbu %s, %d(%s)", reg(rd), imm, reg(rs1))
	case isa.F3LHU:
		return fmt.Sprintf("lhu %s, %d(%s)", reg(rd), imm, reg(rs1))
	default:
		return unknown(word)
	}
}

func disasmStore(funct3 isa.Funct3, rs2, rs1 uint32, imm int32, word uint32) string {
	switch funct3 {
	case isa.F3SB:
		return fmt.Sprintf("sb %s, %d(%s)", reg(rs2), imm, reg(rs1))
	case isa.F3SH:
		return fmt.Sprintf("sh %s, %d(%s)", reg(rs2), imm, reg(rs1))
	case isa.F3SW:
		return fmt.Sprintf("sw %s, %d(%s)", reg(rs2), imm, reg(rs1))
	default:
		return unknown(word)
	}
}

func disasmBranch(funct3 isa.Funct3, rs1, rs2, addr uint32, imm int32, word uint32) string {
	target := uint32(int64(addr) + int64(imm))
	switch funct3 {
	case isa.F3BEQ:
		return fmt.Sprintf("beq %s, %s, 0x%08x", reg(rs1), reg(rs2), target)
	case isa.F3BNE:
		return fmt.Sprintf("bne %s, %s, 0x%08x", reg(rs1), reg(rs2), target)
	case isa.F3BLT:
		return fmt.Sprintf("blt %s, %s, 0x%08x", reg(rs1), reg(rs2), target)
	case isa.F3BGE:
		return fmt.Sprintf("bge %s, %s, 0x%08x", reg(rs1), reg(rs2), target)
	case isa.F3BLTU:
		return fmt.Sprintf("bltu %s, %s, 0x%08x", reg(rs1), reg(rs2), target)
	case isa.F3BGEU:
		return fmt.Sprintf("bgeu %s, %s, 0x%08x", reg(rs1), reg(rs2), target)
	default:
		return unknown(word)
	}
}
