// Package isa holds the architectural constants of the RV32I base integer
// instruction set: opcodes, funct3/funct7 codes, ABI register names, and the
// legal immediate range per encoding format. Nothing here executes or
// encodes an instruction; it is the single source of truth the encoder,
// disassembler, and interpreter all read from.
package isa

// Opcode is the 7-bit major opcode field (bits 6:0) of every RV32I word.
type Opcode uint32

const (
	OpLUI    Opcode = 0b0110111
	OpAUIPC  Opcode = 0b0010111
	OpLOAD   Opcode = 0b0000011
	OpSTORE  Opcode = 0b0100011
	OpIMM    Opcode = 0b0010011
	OpREG    Opcode = 0b0110011
	OpBRANCH Opcode = 0b1100011
	OpJAL    Opcode = 0b1101111
	OpJALR   Opcode = 0b1100111
)

// funct3 codes, grouped by the opcode family that uses them.
const (
	F3AddSub Funct3 = 0b000
	F3SLL    Funct3 = 0b001
	F3SLT    Funct3 = 0b010
	F3SLTU   Funct3 = 0b011
	F3XOR    Funct3 = 0b100
	F3SRLSRA Funct3 = 0b101
	F3OR     Funct3 = 0b110
	F3AND    Funct3 = 0b111

	F3BEQ  Funct3 = 0b000
	F3BNE  Funct3 = 0b001
	F3BLT  Funct3 = 0b100
	F3BGE  Funct3 = 0b101
	F3BLTU Funct3 = 0b110
	F3BGEU Funct3 = 0b111

	F3LB  Funct3 = 0b000
	F3LH  Funct3 = 0b001
	F3LW  Funct3 = 0b010
	F3LBU Funct3 = 0b100
	F3LHU Funct3 = 0b101

	F3SB Funct3 = 0b000
	F3SH Funct3 = 0b001
	F3SW Funct3 = 0b010
)

// Funct3 is the 3-bit field at bits 14:12 that refines an opcode's meaning.
type Funct3 uint32

// Funct7 is the 7-bit field at bits 31:25, used by R-type ADD/SUB and
// SRL/SRA, and by the OP-IMM shifts SRLI/SRAI, to distinguish the two
// operations sharing a funct3.
type Funct7 uint32

const (
	F7Add Funct7 = 0b0000000
	F7Sub Funct7 = 0b0100000
	F7Srl Funct7 = 0b0000000
	F7Sra Funct7 = 0b0100000
)

// Field bit-extraction masks, applied after shifting a word into position.
const (
	OpcodeMask = 0x7F
	RegMask    = 0x1F // 5-bit register index
	Funct3Mask = 0x7
	Funct7Mask = 0x7F
)

// Bit positions for the common fields shared by R/I/S formats.
const (
	RdShift     = 7
	Funct3Shift = 12
	Rs1Shift    = 15
	Rs2Shift    = 20
	Funct7Shift = 25
)

// Format identifies which of the six RV32I encodings a mnemonic uses.
type Format int

const (
	FormatR Format = iota
	FormatI
	FormatS
	FormatB
	FormatU
	FormatJ
)

// Immediate range and alignment rules, per encoding format.
const (
	ITypeImmMin, ITypeImmMax = -2048, 2047
	STypeImmMin, STypeImmMax = -2048, 2047
	BImmMin, BImmMax         = -4096, 4094 // must be even
	UImmMin, UImmMax         = 0, 1048575  // 2^20 - 1
	JImmMin, JImmMax         = -1048576, 1048574 // must be even
)

// ABINames maps register index 0..31 to its RISC-V ABI name. Index 8 ("s0")
// has the additional alias "fp".
var ABINames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// abiToIndex is built once from ABINames plus the "fp" alias for s0.
var abiToIndex map[string]int

func init() {
	abiToIndex = make(map[string]int, len(ABINames)+1)
	for i, name := range ABINames {
		abiToIndex[name] = i
	}
	abiToIndex["fp"] = 8
}

// LookupABI resolves an ABI register name (or its "fp" alias) to an index.
func LookupABI(name string) (int, bool) {
	idx, ok := abiToIndex[name]
	return idx, ok
}
