package encoder

import "github.com/rv32isim/rv32i-emulator/isa"

// This file is the field codec: pure functions that pack a machine word
// from its fields and unpack a word back into fields, one pair per RV32I
// encoding format. Nothing here knows about mnemonics or the symbol table;
// Encoder (encoder.go) is the layer that does.

// SignExtend12 sign-extends the bottom 12 bits of value (the I/S immediate
// field) to a full signed 32-bit integer.
func SignExtend12(value uint32) int32 {
	value &= 0xFFF
	if value&0x800 != 0 {
		return int32(value) - 0x1000
	}
	return int32(value)
}

// SignExtend13 sign-extends a 13-bit B-type immediate (bit 0 is always 0 and
// is not itself stored; callers pass the reconstructed 13-bit value).
func SignExtend13(value uint32) int32 {
	value &= 0x1FFF
	if value&0x1000 != 0 {
		return int32(value) - 0x2000
	}
	return int32(value)
}

// SignExtend21 sign-extends a 21-bit J-type immediate.
func SignExtend21(value uint32) int32 {
	value &= 0x1FFFFF
	if value&0x100000 != 0 {
		return int32(value) - 0x200000
	}
	return int32(value)
}

// PackR assembles an R-type word: funct7|rs2|rs1|funct3|rd|opcode.
func PackR(funct7 isa.Funct7, rs2, rs1 uint32, funct3 isa.Funct3, rd uint32, opcode isa.Opcode) uint32 {
	return (uint32(funct7) << isa.Funct7Shift) |
		(rs2 << isa.Rs2Shift) |
		(rs1 << isa.Rs1Shift) |
		(uint32(funct3) << isa.Funct3Shift) |
		(rd << isa.RdShift) |
		uint32(opcode)
}

// UnpackR extracts the R-type fields from a word.
func UnpackR(word uint32) (funct7 isa.Funct7, rs2, rs1 uint32, funct3 isa.Funct3, rd uint32) {
	funct7 = isa.Funct7((word >> isa.Funct7Shift) & isa.Funct7Mask)
	rs2 = (word >> isa.Rs2Shift) & isa.RegMask
	rs1 = (word >> isa.Rs1Shift) & isa.RegMask
	funct3 = isa.Funct3((word >> isa.Funct3Shift) & isa.Funct3Mask)
	rd = (word >> isa.RdShift) & isa.RegMask
	return
}

// PackI assembles an I-type word. imm is a signed value already validated
// to fit [-2048, 2047]; only its low 12 bits are used.
func PackI(imm int32, rs1 uint32, funct3 isa.Funct3, rd uint32, opcode isa.Opcode) uint32 {
	return ((uint32(imm) & 0xFFF) << isa.Rs2Shift) |
		(rs1 << isa.Rs1Shift) |
		(uint32(funct3) << isa.Funct3Shift) |
		(rd << isa.RdShift) |
		uint32(opcode)
}

// UnpackI extracts the I-type fields, reconstructing the sign-extended
// immediate.
func UnpackI(word uint32) (imm int32, rs1 uint32, funct3 isa.Funct3, rd uint32) {
	imm = SignExtend12(word >> 20)
	rs1 = (word >> isa.Rs1Shift) & isa.RegMask
	funct3 = isa.Funct3((word >> isa.Funct3Shift) & isa.Funct3Mask)
	rd = (word >> isa.RdShift) & isa.RegMask
	return
}

// PackShift assembles an I-type shift-by-immediate word (slli/srli/srai):
// the low 5 bits of the I-immediate slot hold shamt, and funct7 carries the
// arithmetic-shift marker for srai.
func PackShift(funct7 isa.Funct7, shamt, rs1 uint32, funct3 isa.Funct3, rd uint32, opcode isa.Opcode) uint32 {
	return (uint32(funct7) << isa.Funct7Shift) |
		((shamt & 0x1F) << isa.Rs2Shift) |
		(rs1 << isa.Rs1Shift) |
		(uint32(funct3) << isa.Funct3Shift) |
		(rd << isa.RdShift) |
		uint32(opcode)
}

// PackS assembles an S-type word, splitting the immediate across bits
// 31:25 (upper 7) and 11:7 (lower 5).
func PackS(imm int32, rs2, rs1 uint32, funct3 isa.Funct3, opcode isa.Opcode) uint32 {
	u := uint32(imm) & 0xFFF
	imm11_5 := (u >> 5) & 0x7F
	imm4_0 := u & 0x1F
	return (imm11_5 << isa.Funct7Shift) |
		(rs2 << isa.Rs2Shift) |
		(rs1 << isa.Rs1Shift) |
		(uint32(funct3) << isa.Funct3Shift) |
		(imm4_0 << isa.RdShift) |
		uint32(opcode)
}

// UnpackS extracts the S-type fields, reassembling the split immediate.
func UnpackS(word uint32) (imm int32, rs2, rs1 uint32, funct3 isa.Funct3) {
	raw := ((word >> isa.Funct7Shift) << 5) | ((word >> isa.RdShift) & 0x1F)
	imm = SignExtend12(raw)
	rs2 = (word >> isa.Rs2Shift) & isa.RegMask
	rs1 = (word >> isa.Rs1Shift) & isa.RegMask
	funct3 = isa.Funct3((word >> isa.Funct3Shift) & isa.Funct3Mask)
	return
}

// PackB assembles a B-type word. imm must already be even; bit 0 is
// implicit and never stored. The 13-bit value is permuted across the word:
// bit 12 -> bit 31, bits 10:5 -> bits 30:25, bits 4:1 -> bits 11:8, bit 11
// -> bit 7.
func PackB(imm int32, rs2, rs1 uint32, funct3 isa.Funct3, opcode isa.Opcode) uint32 {
	u := uint32(imm) & 0x1FFF
	imm12 := (u >> 12) & 0x1
	imm10_5 := (u >> 5) & 0x3F
	imm4_1 := (u >> 1) & 0xF
	imm11 := (u >> 11) & 0x1
	return (imm12 << 31) |
		(imm10_5 << isa.Funct7Shift) |
		(rs2 << isa.Rs2Shift) |
		(rs1 << isa.Rs1Shift) |
		(uint32(funct3) << isa.Funct3Shift) |
		(imm4_1 << 8) |
		(imm11 << isa.RdShift) |
		uint32(opcode)
}

// UnpackB extracts the B-type fields, reversing the bit permutation and
// sign-extending the result.
func UnpackB(word uint32) (imm int32, rs2, rs1 uint32, funct3 isa.Funct3) {
	raw := ((word & 0x80000000) >> 19) |
		((word & 0x80) << 4) |
		((word >> 20) & 0x7E0) |
		((word >> 7) & 0x1E)
	imm = SignExtend13(raw)
	rs2 = (word >> isa.Rs2Shift) & isa.RegMask
	rs1 = (word >> isa.Rs1Shift) & isa.RegMask
	funct3 = isa.Funct3((word >> isa.Funct3Shift) & isa.Funct3Mask)
	return
}

// PackU assembles a U-type word. imm holds the upper 20 bits value
// (i.e. the value placed in bits 31:12, the caller's literal already
// excludes the low 12 bits).
func PackU(imm uint32, rd uint32, opcode isa.Opcode) uint32 {
	return ((imm & 0xFFFFF) << isa.Funct3Shift) | (rd << isa.RdShift) | uint32(opcode)
}

// UnpackU extracts the U-type fields. The returned imm is the raw 32-bit
// word with the low 12 bits masked to zero (bits 31:12 carry the value).
func UnpackU(word uint32) (imm uint32, rd uint32) {
	imm = word & 0xFFFFF000
	rd = (word >> isa.RdShift) & isa.RegMask
	return
}

// PackJ assembles a J-type word. imm must already be even; the 21-bit
// value is permuted: bit 20 -> bit 31, bits 10:1 -> bits 30:21, bit 11 ->
// bit 20, bits 19:12 -> bits 19:12.
func PackJ(imm int32, rd uint32, opcode isa.Opcode) uint32 {
	u := uint32(imm) & 0x1FFFFF
	imm20 := (u >> 20) & 0x1
	imm10_1 := (u >> 1) & 0x3FF
	imm11 := (u >> 11) & 0x1
	imm19_12 := (u >> 12) & 0xFF
	return (imm20 << 31) |
		(imm19_12 << isa.Funct3Shift) |
		(imm11 << 20) |
		(imm10_1 << 21) |
		(rd << isa.RdShift) |
		uint32(opcode)
}

// UnpackJ extracts the J-type fields, reversing the bit permutation and
// sign-extending the result.
func UnpackJ(word uint32) (imm int32, rd uint32) {
	raw := ((word & 0x80000000) >> 11) |
		(word & 0xFF000) |
		((word >> 9) & 0x800) |
		((word >> 20) & 0x7FE)
	imm = SignExtend21(raw)
	rd = (word >> isa.RdShift) & isa.RegMask
	return
}
