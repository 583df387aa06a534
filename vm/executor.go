package vm

import (
	"github.com/rv32isim/rv32i-emulator/encoder"
	"github.com/rv32isim/rv32i-emulator/isa"
)

// Step fetches the word at PC, decodes it, executes it, and reports whether
// execution should continue. A false return means the machine has halted:
// PC out of bounds, PC misaligned, or a zero word (the sentinel end of
// program).
func (v *VM) Step() bool {
	if v.PC >= uint32(v.Mem.Len()) || v.PC%4 != 0 {
		return false
	}
	word, ok := v.Mem.ReadWord(v.PC)
	if !ok || word == 0 {
		return false
	}

	v.Cycles++
	nextPC := v.PC + 4
	nextPC = v.execute(word, v.PC, nextPC)
	v.PC = nextPC
	v.Regs[0] = 0
	return true
}

// Run invokes Step repeatedly until it returns false or maxCycles steps
// have been taken in this call, whichever comes first. It returns the
// number of steps actually executed. maxCycles is advisory, not
// architectural — it exists only to keep an interactive caller from
// hanging on an infinite loop.
func (v *VM) Run(maxCycles uint64) int {
	if maxCycles == 0 {
		maxCycles = DefaultMaxCycles
	}
	taken := 0
	for uint64(taken) < maxCycles {
		if !v.Step() {
			break
		}
		taken++
	}
	return taken
}

// execute dispatches a fetched word to its opcode family and returns the
// resolved next PC. fallthroughPC is PC+4, the default unless the
// instruction is a control transfer.
func (v *VM) execute(word, pc, fallthroughPC uint32) uint32 {
	opcode := isa.Opcode(word & isa.OpcodeMask)

	switch opcode {
	case isa.OpREG:
		funct7, rs2, rs1, funct3, rd := encoder.UnpackR(word)
		v.setReg(rd, execRType(funct3, funct7, v.reg(rs1), v.reg(rs2)))
		return fallthroughPC

	case isa.OpIMM:
		imm, rs1, funct3, rd := encoder.UnpackI(word)
		if funct3 == isa.F3SLL || funct3 == isa.F3SRLSRA {
			shamt := uint32(imm) & 0x1F
			funct7 := isa.Funct7((word >> isa.Funct7Shift) & isa.Funct7Mask)
			v.setReg(rd, execIShift(funct3, funct7, v.reg(rs1), shamt))
		} else {
			v.setReg(rd, execIArith(funct3, v.reg(rs1), imm))
		}
		return fallthroughPC

	case isa.OpJALR:
		imm, rs1, _, rd := encoder.UnpackI(word)
		target := (v.reg(rs1) + uint32(imm)) &^ 1
		v.setReg(rd, fallthroughPC)
		return target

	case isa.OpLUI:
		imm, rd := encoder.UnpackU(word)
		v.setReg(rd, imm)
		return fallthroughPC

	case isa.OpAUIPC:
		imm, rd := encoder.UnpackU(word)
		v.setReg(rd, pc+imm)
		return fallthroughPC

	case isa.OpLOAD:
		imm, rs1, funct3, rd := encoder.UnpackI(word)
		addr := v.reg(rs1) + uint32(imm)
		if value, ok := v.execLoad(funct3, addr); ok {
			v.setReg(rd, value)
		}
		return fallthroughPC

	case isa.OpSTORE:
		imm, rs2, rs1, funct3 := encoder.UnpackS(word)
		addr := v.reg(rs1) + uint32(imm)
		v.execStore(funct3, addr, v.reg(rs2))
		return fallthroughPC

	case isa.OpBRANCH:
		imm, rs2, rs1, funct3 := encoder.UnpackB(word)
		if evalBranch(funct3, v.reg(rs1), v.reg(rs2)) {
			return uint32(int64(pc) + int64(imm))
		}
		return fallthroughPC

	case isa.OpJAL:
		imm, rd := encoder.UnpackJ(word)
		v.setReg(rd, fallthroughPC)
		return uint32(int64(pc) + int64(imm))
	}

	return fallthroughPC
}
