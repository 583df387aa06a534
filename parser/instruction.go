package parser

// Instruction is one real (post pseudo-expansion) RV32I instruction, ready
// for the encoder to dispatch on Mnemonic and pack Operands into a word.
type Instruction struct {
	Address  uint32
	Line     int    // originating source line, for error messages
	Mnemonic string
	Operands []string
}

// Program is the assembler's parse result: the expanded instruction
// stream, the symbol table built from it, and the pseudo-expansion log.
type Program struct {
	Instructions []*Instruction
	SymbolTable  *SymbolTable
	ExpansionLog []string
}
