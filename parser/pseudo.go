package parser

import (
	"fmt"

	"github.com/rv32isim/rv32i-emulator/isa"
)

// liLargeFormSize reports the instruction-stream size, in bytes, that a
// `li rd, imm` pseudo-instruction will occupy: 4 for an immediate that
// fits the I-type range, 8 otherwise (lui+addi). Pass 1 uses this to keep
// address assignment in sync with Pass 2's actual expansion. An immediate
// that fails to parse as a numeric literal is assumed to fit in one word;
// expandPseudo will raise the real parse error during Pass 2.
func liLargeFormSize(operands []string) int {
	if len(operands) != 2 {
		return 4
	}
	imm, err := ParseNumber(operands[1])
	if err != nil {
		return 4
	}
	if imm < isa.ITypeImmMin || imm > isa.ITypeImmMax {
		return 8
	}
	return 4
}

// expandPseudo rewrites a pseudo-instruction line into one or more real
// RV32I instructions at consecutive addresses, appending a human-readable
// record of the rewrite to *log. Lines that are not pseudo-instructions
// are returned unchanged as a single-element slice.
func expandPseudo(lineNo int, mnemonic string, operands []string, address uint32, log *[]string) ([]*Instruction, error) {
	original := formatLine(mnemonic, operands)

	switch mnemonic {
	case "j":
		if len(operands) != 1 {
			return nil, fmt.Errorf("line %d: `j` takes exactly one operand", lineNo)
		}
		expansion := []*Instruction{{Address: address, Line: lineNo, Mnemonic: "jal", Operands: []string{"zero", operands[0]}}}
		logExpansion(log, lineNo, original, "jal zero, "+operands[0])
		return expansion, nil

	case "mv":
		if len(operands) != 2 {
			return nil, fmt.Errorf("line %d: `mv` takes exactly two operands", lineNo)
		}
		expansion := []*Instruction{{Address: address, Line: lineNo, Mnemonic: "addi", Operands: []string{operands[0], operands[1], "0"}}}
		logExpansion(log, lineNo, original, fmt.Sprintf("addi %s, %s, 0", operands[0], operands[1]))
		return expansion, nil

	case "nop":
		expansion := []*Instruction{{Address: address, Line: lineNo, Mnemonic: "addi", Operands: []string{"zero", "zero", "0"}}}
		logExpansion(log, lineNo, original, "addi zero, zero, 0")
		return expansion, nil

	case "ret":
		expansion := []*Instruction{{Address: address, Line: lineNo, Mnemonic: "jalr", Operands: []string{"zero", "ra", "0"}}}
		logExpansion(log, lineNo, original, "jalr zero, ra, 0")
		return expansion, nil

	case "li":
		if len(operands) != 2 {
			return nil, fmt.Errorf("line %d: `li` takes exactly two operands", lineNo)
		}
		rd := operands[0]
		imm, err := ParseNumber(operands[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: `li` immediate: %w", lineNo, err)
		}

		if imm >= isa.ITypeImmMin && imm <= isa.ITypeImmMax {
			expansion := []*Instruction{{Address: address, Line: lineNo, Mnemonic: "addi", Operands: []string{rd, "zero", operands[1]}}}
			logExpansion(log, lineNo, original, fmt.Sprintf("addi %s, zero, %s", rd, operands[1]))
			return expansion, nil
		}

		// Large immediate: split into an upper 20-bit `lui` and a
		// sign-extension-compensated `addi`. The +0x800 bias on upper
		// cancels the sign extension the subsequent addi applies to lower.
		upper := (imm + 0x800) >> 12
		lower := imm - (upper << 12)
		if upper < 0 && imm >= -0x80000000 {
			upper &= 0xFFFFF
		}
		expansion := []*Instruction{
			{Address: address, Line: lineNo, Mnemonic: "lui", Operands: []string{rd, fmt.Sprintf("%d", upper)}},
			{Address: address + 4, Line: lineNo, Mnemonic: "addi", Operands: []string{rd, rd, fmt.Sprintf("%d", lower)}},
		}
		*log = append(*log, fmt.Sprintf("L%d: `%s` -> `lui %s, 0x%x`; `addi %s, %s, %d`", lineNo, original, rd, upper, rd, rd, lower))
		return expansion, nil

	default:
		return []*Instruction{{Address: address, Line: lineNo, Mnemonic: mnemonic, Operands: operands}}, nil
	}
}

func logExpansion(log *[]string, lineNo int, original, expansion string) {
	*log = append(*log, fmt.Sprintf("L%d: `%s` -> `%s`", lineNo, original, expansion))
}

func formatLine(mnemonic string, operands []string) string {
	s := mnemonic
	for i, op := range operands {
		if i == 0 {
			s += " " + op
		} else {
			s += ", " + op
		}
	}
	return s
}

// isPseudo reports whether mnemonic is one of the pseudo-instructions
// expanded before encoding.
func isPseudo(mnemonic string) bool {
	switch mnemonic {
	case "j", "mv", "nop", "ret", "li":
		return true
	default:
		return false
	}
}
