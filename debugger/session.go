// Package debugger wraps vm.VM with a programmatic debugging session:
// load/step/run/reset plus breakpoints, register/memory inspection, and
// symbol lookup for display. Both the TUI and the HTTP/WebSocket API are
// thin clients of Session.
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rv32isim/rv32i-emulator/assembler"
	"github.com/rv32isim/rv32i-emulator/disasm"
	"github.com/rv32isim/rv32i-emulator/vm"
)

// Session holds one interpreter instance plus the debugging state layered
// on top of it: breakpoints, the symbol table for display, and the
// expansion-aware line annotations from the last assembly.
type Session struct {
	VM *vm.VM

	Breakpoints *BreakpointManager

	Image   *assembler.ProgramImage
	Symbols map[string]uint32

	Running     bool
	LastCommand string

	Output strings.Builder
}

// NewSession creates a debugging session around a freshly allocated
// interpreter of the given memory size.
func NewSession(memSize int) *Session {
	return &Session{
		VM:          vm.NewVM(memSize),
		Breakpoints: NewBreakpointManager(),
		Symbols:     make(map[string]uint32),
	}
}

// Load installs a freshly assembled program image: it loads the machine
// code into the interpreter and replaces the symbol table used for
// display.
func (s *Session) Load(image *assembler.ProgramImage) {
	s.Image = image
	s.VM.LoadProgram(image.Words)
	if image.Symbols != nil {
		s.Symbols = image.Symbols.All()
	}
	s.Running = false
}

// Reset restores the interpreter to its state immediately after Load.
func (s *Session) Reset() {
	s.VM.Reset()
	s.Running = false
}

// ResolveAddress resolves a label to an address, or parses a numeric
// address (decimal or 0x-hex).
func (s *Session) ResolveAddress(token string) (uint32, error) {
	if addr, ok := s.Symbols[token]; ok {
		return addr, nil
	}

	base := 10
	trimmed := token
	if strings.HasPrefix(token, "0x") || strings.HasPrefix(token, "0X") {
		base = 16
		trimmed = token[2:]
	}
	n, err := strconv.ParseUint(trimmed, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", token)
	}
	return uint32(n), nil
}

// ShouldBreak reports whether execution should pause at the interpreter's
// current PC, and why.
func (s *Session) ShouldBreak() (bool, string) {
	pc := s.VM.PC

	bp := s.Breakpoints.GetBreakpoint(pc)
	if bp == nil || !bp.Enabled {
		return false, ""
	}

	bp.HitCount++
	if bp.Temporary {
		_ = s.Breakpoints.DeleteBreakpoint(bp.ID)
	}

	return true, fmt.Sprintf("breakpoint %d", bp.ID)
}

// Step executes one instruction, honoring no breakpoint logic itself — the
// caller checks ShouldBreak before calling Step so a breakpoint at PC is
// seen before it executes.
func (s *Session) Step() bool {
	return s.VM.Step()
}

// RunUntil executes Step in a loop, stopping when the interpreter halts,
// a breakpoint is hit, or maxCycles steps have run — whichever comes
// first. It returns the number of steps taken and, if a breakpoint or halt
// stopped it, a description of why.
func (s *Session) RunUntil(maxCycles uint64) (steps int, reason string) {
	if maxCycles == 0 {
		maxCycles = vm.DefaultMaxCycles
	}
	for uint64(steps) < maxCycles {
		if hit, why := s.ShouldBreak(); hit {
			return steps, why
		}
		if !s.Step() {
			return steps, "halted"
		}
		steps++
	}
	return steps, "cycle limit reached"
}

// DisassembleAt returns the disassembly of the word at addr, or
// "; out of bounds" if addr is out of bounds.
func (s *Session) DisassembleAt(addr uint32) string {
	word, ok := s.VM.Mem.ReadWord(addr)
	if !ok {
		return "; out of bounds"
	}
	return disasm.Disassemble(word, addr)
}

// SourceLineAt returns the 1-based source line number that produced the
// instruction at addr, if known.
func (s *Session) SourceLineAt(addr uint32) (int, bool) {
	if s.Image == nil {
		return 0, false
	}
	line, ok := s.Image.AddressLines[addr]
	return line, ok
}

// GetOutput returns and clears the session's output buffer.
func (s *Session) GetOutput() string {
	out := s.Output.String()
	s.Output.Reset()
	return out
}

// Printf writes formatted output to the session's output buffer.
func (s *Session) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&s.Output, format, args...)
}
