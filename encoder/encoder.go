package encoder

import (
	"strings"

	"github.com/rv32isim/rv32i-emulator/isa"
	"github.com/rv32isim/rv32i-emulator/parser"
)

// Encoder packs resolved instructions into RV32I machine words, routing
// each mnemonic to its format's encoder and reporting out-of-range
// immediates or odd branch/jump displacements as an *Error naming the
// source line.
type Encoder struct {
	symbols *parser.SymbolTable
}

// NewEncoder creates an encoder that resolves label operands against symbols.
func NewEncoder(symbols *parser.SymbolTable) *Encoder {
	return &Encoder{symbols: symbols}
}

// EncodeInstruction packs one already-expanded instruction into a word.
func (e *Encoder) EncodeInstruction(inst *parser.Instruction) (uint32, error) {
	m := strings.ToLower(inst.Mnemonic)

	switch m {
	case "add", "sub", "sll", "slt", "sltu", "xor", "srl", "sra", "or", "and":
		return e.encodeRType(inst, m)
	case "addi", "slti", "sltiu", "xori", "ori", "andi":
		return e.encodeIArith(inst, m)
	case "slli", "srli", "srai":
		return e.encodeIShift(inst, m)
	case "jalr":
		return e.encodeJalr(inst)
	case "lb", "lh", "lw", "lbu", "lhu":
		return e.encodeLoad(inst, m)
	case "sb", "sh", "sw":
		return e.encodeStore(inst, m)
	case "beq", "bne", "blt", "bge", "bltu", "bgeu":
		return e.encodeBranch(inst, m)
	case "jal":
		return e.encodeJal(inst)
	case "lui", "auipc":
		return e.encodeUType(inst, m)
	default:
		return 0, newError(inst.Line, inst.Mnemonic, "unknown mnemonic")
	}
}

var rTypeFunct3 = map[string]isa.Funct3{
	"add": isa.F3AddSub, "sub": isa.F3AddSub,
	"sll": isa.F3SLL, "slt": isa.F3SLT, "sltu": isa.F3SLTU,
	"xor": isa.F3XOR, "srl": isa.F3SRLSRA, "sra": isa.F3SRLSRA,
	"or": isa.F3OR, "and": isa.F3AND,
}

var rTypeFunct7 = map[string]isa.Funct7{
	"sub": isa.F7Sub, "sra": isa.F7Sra,
}

func (e *Encoder) encodeRType(inst *parser.Instruction, m string) (uint32, error) {
	if len(inst.Operands) != 3 {
		return 0, newError(inst.Line, m, "expected 3 operands (rd, rs1, rs2)")
	}
	rd, err := parseRegister(inst.Operands[0])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	rs1, err := parseRegister(inst.Operands[1])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	rs2, err := parseRegister(inst.Operands[2])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	return PackR(rTypeFunct7[m], rs2, rs1, rTypeFunct3[m], rd, isa.OpREG), nil
}

var iArithFunct3 = map[string]isa.Funct3{
	"addi": isa.F3AddSub, "slti": isa.F3SLT, "sltiu": isa.F3SLTU,
	"xori": isa.F3XOR, "ori": isa.F3OR, "andi": isa.F3AND,
}

func (e *Encoder) encodeIArith(inst *parser.Instruction, m string) (uint32, error) {
	if len(inst.Operands) != 3 {
		return 0, newError(inst.Line, m, "expected 3 operands (rd, rs1, imm)")
	}
	rd, err := parseRegister(inst.Operands[0])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	rs1, err := parseRegister(inst.Operands[1])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	imm, err := e.resolveImmediate(inst.Operands[2])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	if imm < isa.ITypeImmMin || imm > isa.ITypeImmMax {
		return 0, rangeError(inst.Line, m, imm, isa.ITypeImmMin, isa.ITypeImmMax)
	}
	return PackI(imm, rs1, iArithFunct3[m], rd, isa.OpIMM), nil
}

func (e *Encoder) encodeIShift(inst *parser.Instruction, m string) (uint32, error) {
	if len(inst.Operands) != 3 {
		return 0, newError(inst.Line, m, "expected 3 operands (rd, rs1, shamt)")
	}
	rd, err := parseRegister(inst.Operands[0])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	rs1, err := parseRegister(inst.Operands[1])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	shamt, err := e.resolveImmediate(inst.Operands[2])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	if shamt < 0 || shamt > 31 {
		return 0, rangeError(inst.Line, m, shamt, 0, 31)
	}
	funct3 := isa.F3SRLSRA
	if m == "slli" {
		funct3 = isa.F3SLL
	}
	funct7 := isa.F7Srl
	if m == "srai" {
		funct7 = isa.F7Sra
	}
	return PackShift(funct7, uint32(shamt), rs1, funct3, rd, isa.OpIMM), nil
}

func (e *Encoder) encodeJalr(inst *parser.Instruction) (uint32, error) {
	if len(inst.Operands) != 3 {
		return 0, newError(inst.Line, "jalr", "expected 3 operands (rd, rs1, imm)")
	}
	rd, err := parseRegister(inst.Operands[0])
	if err != nil {
		return 0, newError(inst.Line, "jalr", err.Error())
	}
	rs1, err := parseRegister(inst.Operands[1])
	if err != nil {
		return 0, newError(inst.Line, "jalr", err.Error())
	}
	imm, err := e.resolveImmediate(inst.Operands[2])
	if err != nil {
		return 0, newError(inst.Line, "jalr", err.Error())
	}
	if imm < isa.ITypeImmMin || imm > isa.ITypeImmMax {
		return 0, rangeError(inst.Line, "jalr", imm, isa.ITypeImmMin, isa.ITypeImmMax)
	}
	return PackI(imm, rs1, isa.F3AddSub, rd, isa.OpJALR), nil
}

var loadFunct3 = map[string]isa.Funct3{
	"lb": isa.F3LB, "lh": isa.F3LH, "lw": isa.F3LW, "lbu": isa.F3LBU, "lhu": isa.F3LHU,
}

func (e *Encoder) encodeLoad(inst *parser.Instruction, m string) (uint32, error) {
	if len(inst.Operands) != 2 {
		return 0, newError(inst.Line, m, "expected 2 operands (rd, offset(rs1))")
	}
	rd, err := parseRegister(inst.Operands[0])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	offsetStr, regStr, err := parseMemOperand(inst.Operands[1])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	rs1, err := parseRegister(regStr)
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	imm, err := e.resolveImmediate(offsetStr)
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	if imm < isa.ITypeImmMin || imm > isa.ITypeImmMax {
		return 0, rangeError(inst.Line, m, imm, isa.ITypeImmMin, isa.ITypeImmMax)
	}
	return PackI(imm, rs1, loadFunct3[m], rd, isa.OpLOAD), nil
}

var storeFunct3 = map[string]isa.Funct3{
	"sb": isa.F3SB, "sh": isa.F3SH, "sw": isa.F3SW,
}

func (e *Encoder) encodeStore(inst *parser.Instruction, m string) (uint32, error) {
	if len(inst.Operands) != 2 {
		return 0, newError(inst.Line, m, "expected 2 operands (rs2, offset(rs1))")
	}
	rs2, err := parseRegister(inst.Operands[0])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	offsetStr, regStr, err := parseMemOperand(inst.Operands[1])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	rs1, err := parseRegister(regStr)
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	imm, err := e.resolveImmediate(offsetStr)
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	if imm < isa.STypeImmMin || imm > isa.STypeImmMax {
		return 0, rangeError(inst.Line, m, imm, isa.STypeImmMin, isa.STypeImmMax)
	}
	return PackS(imm, rs2, rs1, storeFunct3[m], isa.OpSTORE), nil
}

var branchFunct3 = map[string]isa.Funct3{
	"beq": isa.F3BEQ, "bne": isa.F3BNE, "blt": isa.F3BLT,
	"bge": isa.F3BGE, "bltu": isa.F3BLTU, "bgeu": isa.F3BGEU,
}

func (e *Encoder) encodeBranch(inst *parser.Instruction, m string) (uint32, error) {
	if len(inst.Operands) != 3 {
		return 0, newError(inst.Line, m, "expected 3 operands (rs1, rs2, label)")
	}
	rs1, err := parseRegister(inst.Operands[0])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	rs2, err := parseRegister(inst.Operands[1])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	target, ok := e.symbols.Lookup(inst.Operands[2])
	if !ok {
		return 0, newError(inst.Line, m, "undefined label: "+inst.Operands[2])
	}
	imm := int32(target) - int32(inst.Address)
	if imm%2 != 0 {
		return 0, oddOffsetError(inst.Line, m, imm)
	}
	if imm < isa.BImmMin || imm > isa.BImmMax {
		return 0, rangeError(inst.Line, m, imm, isa.BImmMin, isa.BImmMax)
	}
	return PackB(imm, rs2, rs1, branchFunct3[m], isa.OpBRANCH), nil
}

func (e *Encoder) encodeJal(inst *parser.Instruction) (uint32, error) {
	if len(inst.Operands) != 2 {
		return 0, newError(inst.Line, "jal", "expected 2 operands (rd, label)")
	}
	rd, err := parseRegister(inst.Operands[0])
	if err != nil {
		return 0, newError(inst.Line, "jal", err.Error())
	}
	target, ok := e.symbols.Lookup(inst.Operands[1])
	if !ok {
		return 0, newError(inst.Line, "jal", "undefined label: "+inst.Operands[1])
	}
	imm := int32(target) - int32(inst.Address)
	if imm%2 != 0 {
		return 0, oddOffsetError(inst.Line, "jal", imm)
	}
	if imm < isa.JImmMin || imm > isa.JImmMax {
		return 0, rangeError(inst.Line, "jal", imm, isa.JImmMin, isa.JImmMax)
	}
	return PackJ(imm, rd, isa.OpJAL), nil
}

func (e *Encoder) encodeUType(inst *parser.Instruction, m string) (uint32, error) {
	if len(inst.Operands) != 2 {
		return 0, newError(inst.Line, m, "expected 2 operands (rd, imm)")
	}
	rd, err := parseRegister(inst.Operands[0])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	imm, err := e.resolveImmediate(inst.Operands[1])
	if err != nil {
		return 0, newError(inst.Line, m, err.Error())
	}
	if imm < isa.UImmMin || imm > isa.UImmMax {
		return 0, rangeError(inst.Line, m, imm, isa.UImmMin, isa.UImmMax)
	}
	opcode := isa.OpLUI
	if m == "auipc" {
		opcode = isa.OpAUIPC
	}
	return PackU(uint32(imm), rd, opcode), nil
}

// resolveImmediate evaluates an operand that is either a numeric literal
// or a previously-defined label.
func (e *Encoder) resolveImmediate(operand string) (int32, error) {
	operand = strings.TrimSpace(operand)
	if addr, ok := e.symbols.Lookup(operand); ok {
		return int32(addr), nil
	}
	value, err := parser.ParseNumber(operand)
	if err != nil {
		return 0, err
	}
	return int32(value), nil
}
