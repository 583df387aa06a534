// Package tools holds developer-facing analysis utilities over assembly
// source. It currently holds a symbol cross-reference generator.
package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rv32isim/rv32i-emulator/isa"
	"github.com/rv32isim/rv32i-emulator/parser"
)

// ReferenceType indicates how a symbol is used.
type ReferenceType int

const (
	RefDefinition ReferenceType = iota
	RefBranch
	RefJump
	RefLoad
	RefStore
)

func (r ReferenceType) String() string {
	switch r {
	case RefDefinition:
		return "definition"
	case RefBranch:
		return "branch"
	case RefJump:
		return "jump"
	case RefLoad:
		return "load"
	case RefStore:
		return "store"
	default:
		return "unknown"
	}
}

// Reference is a single use of a symbol at a source line.
type Reference struct {
	Type ReferenceType
	Line int
}

// Symbol is a label and everywhere it's defined or used.
type Symbol struct {
	Name         string
	DefinedLine  int
	IsDefined    bool
	Address      uint32
	References   []*Reference
	IsBranchOnly bool // referenced only by branch instructions, never jal/jalr
}

// XRefGenerator builds cross-reference information from assembly source.
type XRefGenerator struct {
	program *parser.Program
	symbols map[string]*Symbol
}

// NewXRefGenerator creates an empty generator.
func NewXRefGenerator() *XRefGenerator {
	return &XRefGenerator{symbols: make(map[string]*Symbol)}
}

// Generate parses source and collects every label definition and reference.
func (x *XRefGenerator) Generate(source, filename string) (map[string]*Symbol, error) {
	program, err := parser.Parse(source, filename)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	x.program = program

	x.collectDefinitions()
	x.collectReferences()
	x.markBranchOnly()

	return x.symbols, nil
}

func (x *XRefGenerator) collectDefinitions() {
	for name, addr := range x.program.SymbolTable.All() {
		sym := x.symbolFor(name)
		sym.IsDefined = true
		sym.Address = addr
		if pos, ok := x.program.SymbolTable.Position(name); ok {
			sym.DefinedLine = pos.Line
		}
	}
}

func (x *XRefGenerator) collectReferences() {
	for _, inst := range x.program.Instructions {
		m := strings.ToLower(inst.Mnemonic)
		switch m {
		case "beq", "bne", "blt", "bge", "bltu", "bgeu":
			if len(inst.Operands) == 3 {
				x.addReference(inst.Operands[2], RefBranch, inst.Line)
			}
		case "jal":
			if len(inst.Operands) == 2 {
				x.addReference(inst.Operands[1], RefJump, inst.Line)
			}
		case "lb", "lh", "lw", "lbu", "lhu":
			if len(inst.Operands) == 2 {
				x.addOperandSymbolRef(inst.Operands[1], RefLoad, inst.Line)
			}
		case "sb", "sh", "sw":
			if len(inst.Operands) == 2 {
				x.addOperandSymbolRef(inst.Operands[1], RefStore, inst.Line)
			}
		}
	}
}

// addOperandSymbolRef records a reference only when the offset portion of an
// offset(reg) memory operand names a known symbol rather than a literal.
func (x *XRefGenerator) addOperandSymbolRef(operand string, refType ReferenceType, line int) {
	paren := strings.IndexByte(operand, '(')
	if paren < 0 {
		return
	}
	offset := operand[:paren]
	if offset == "" {
		return
	}
	if _, known := x.symbols[offset]; known {
		x.addReference(offset, refType, line)
	}
}

func (x *XRefGenerator) symbolFor(name string) *Symbol {
	sym, ok := x.symbols[name]
	if !ok {
		sym = &Symbol{Name: name}
		x.symbols[name] = sym
	}
	return sym
}

func (x *XRefGenerator) addReference(name string, refType ReferenceType, line int) {
	if _, isReg := isa.LookupABI(name); isReg {
		return
	}
	sym := x.symbolFor(name)
	sym.References = append(sym.References, &Reference{Type: refType, Line: line})
}

func (x *XRefGenerator) markBranchOnly() {
	for _, sym := range x.symbols {
		branchOnly := len(sym.References) > 0
		for _, ref := range sym.References {
			if ref.Type != RefBranch {
				branchOnly = false
				break
			}
		}
		sym.IsBranchOnly = branchOnly
	}
}

// GetUndefinedSymbols returns symbols referenced but never defined.
func (x *XRefGenerator) GetUndefinedSymbols() []*Symbol {
	return x.filterSort(func(s *Symbol) bool { return !s.IsDefined && len(s.References) > 0 })
}

// GetUnusedSymbols returns symbols defined but never referenced.
func (x *XRefGenerator) GetUnusedSymbols() []*Symbol {
	return x.filterSort(func(s *Symbol) bool { return s.IsDefined && len(s.References) == 0 })
}

func (x *XRefGenerator) filterSort(pred func(*Symbol) bool) []*Symbol {
	var out []*Symbol
	for _, sym := range x.symbols {
		if pred(sym) {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Report renders a sorted, human-readable cross-reference listing.
func Report(symbols map[string]*Symbol) string {
	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Symbol Cross-Reference\n")
	sb.WriteString("=======================\n\n")

	for _, name := range names {
		sym := symbols[name]
		sb.WriteString(fmt.Sprintf("%-24s", sym.Name))
		if sym.IsDefined {
			sb.WriteString(fmt.Sprintf(" [0x%08X] defined line %d\n", sym.Address, sym.DefinedLine))
		} else {
			sb.WriteString(" [undefined]\n")
		}

		if len(sym.References) == 0 {
			sb.WriteString("  referenced:  (never)\n\n")
			continue
		}

		byType := make(map[ReferenceType][]int)
		for _, ref := range sym.References {
			byType[ref.Type] = append(byType[ref.Type], ref.Line)
		}
		for _, t := range []ReferenceType{RefJump, RefBranch, RefLoad, RefStore} {
			lines := byType[t]
			if len(lines) == 0 {
				continue
			}
			strs := make([]string, len(lines))
			for i, l := range lines {
				strs[i] = fmt.Sprintf("%d", l)
			}
			sb.WriteString(fmt.Sprintf("  %-10s: line(s) %s\n", t.String(), strings.Join(strs, ", ")))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// GenerateXRef is a convenience wrapper producing a complete text report.
func GenerateXRef(source, filename string) (string, error) {
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(source, filename)
	if err != nil {
		return "", err
	}
	return Report(symbols), nil
}
