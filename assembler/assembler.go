// Package assembler drives the parser's two-pass label resolution and the
// encoder's bit-packing to turn assembly source text into a ProgramImage
// ready for the interpreter to load.
package assembler

import (
	"fmt"

	"github.com/rv32isim/rv32i-emulator/encoder"
	"github.com/rv32isim/rv32i-emulator/parser"
)

// ProgramImage is everything the assembler produces from one source text:
// the machine-code word stream, a byte-address-to-source-line map for
// disassembly display, and the pseudo-instruction expansion log.
type ProgramImage struct {
	Words        []uint32
	AddressLines map[uint32]int
	ExpansionLog []string
	Symbols      *parser.SymbolTable
}

// Assemble parses and encodes source text in one call: Assemble(text) ->
// (ProgramImage, error). Assembly is idempotent — the same source always
// yields the same machine code, since both passes are pure functions of
// the input text.
func Assemble(source string) (*ProgramImage, error) {
	return AssembleFile(source, "")
}

// AssembleFile is Assemble with an explicit filename attached to error
// positions, for multi-file tooling.
func AssembleFile(source, filename string) (*ProgramImage, error) {
	program, err := parser.Parse(source, filename)
	if err != nil {
		return nil, fmt.Errorf("assembly failed: %w", err)
	}

	enc := encoder.NewEncoder(program.SymbolTable)
	words := make([]uint32, len(program.Instructions))
	addressLines := make(map[uint32]int, len(program.Instructions))

	for i, inst := range program.Instructions {
		word, err := enc.EncodeInstruction(inst)
		if err != nil {
			return nil, fmt.Errorf("assembly failed: %w", err)
		}
		words[i] = word
		addressLines[inst.Address] = inst.Line
	}

	return &ProgramImage{
		Words:        words,
		AddressLines: addressLines,
		ExpansionLog: program.ExpansionLog,
		Symbols:      program.SymbolTable,
	}, nil
}
