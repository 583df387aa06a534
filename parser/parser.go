package parser

import "fmt"

// Parse runs the two-pass assembler algorithm over source text: Pass 1
// assigns every label a byte address (accounting for pseudo-instructions
// that expand to two words); Pass 2 re-scans, expands pseudo-instructions,
// and produces the final ordered instruction stream with its addresses.
// Operand resolution (register names, immediates, label displacements) and
// bit-packing happen downstream in the encoder package; Parse only
// resolves label addresses and pseudo-instruction shape.
func Parse(source, filename string) (*Program, error) {
	lines := lexLines(source)
	symbols := NewSymbolTable()

	if err := firstPass(lines, symbols, filename); err != nil {
		return nil, err
	}

	instructions, log, err := secondPass(lines, filename)
	if err != nil {
		return nil, err
	}

	return &Program{
		Instructions: instructions,
		SymbolTable:  symbols,
		ExpansionLog: log,
	}, nil
}

func firstPass(lines []*Line, symbols *SymbolTable, filename string) error {
	address := uint32(0)

	for _, l := range lines {
		if l.IsBlank() {
			continue
		}
		if l.Label != "" {
			pos := Position{Filename: filename, Line: l.Number}
			if err := symbols.Define(l.Label, address, pos); err != nil {
				return NewErrorWithContext(pos, ErrorDuplicateLabel, err.Error(), l.Raw)
			}
			continue
		}

		size := uint32(4)
		if l.Mnemonic == "li" {
			size = uint32(liLargeFormSize(l.Operands))
		}
		address += size
	}

	return nil
}

func secondPass(lines []*Line, filename string) ([]*Instruction, []string, error) {
	var instructions []*Instruction
	var log []string
	address := uint32(0)

	for _, l := range lines {
		if l.IsBlank() || l.Label != "" {
			continue
		}

		if l.Mnemonic == "" {
			pos := Position{Filename: filename, Line: l.Number}
			return nil, nil, NewErrorWithContext(pos, ErrorUnknownMnemonic, "empty instruction line", l.Raw)
		}

		expanded, err := expandPseudo(l.Number, l.Mnemonic, l.Operands, address, &log)
		if err != nil {
			pos := Position{Filename: filename, Line: l.Number}
			return nil, nil, NewErrorWithContext(pos, ErrorUnknownMnemonic, err.Error(), l.Raw)
		}

		instructions = append(instructions, expanded...)
		address += uint32(len(expanded)) * 4
	}

	return instructions, log, nil
}

// Errorf wraps a parser-level error that does not originate from a
// specific line (e.g. an overall assembly failure after encoding).
func Errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
