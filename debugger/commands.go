package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rv32isim/rv32i-emulator/isa"
)

// ExecuteCommand parses and dispatches one REPL command line against the
// session, buffering any textual output for the caller to print.
func (s *Session) ExecuteCommand(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		line = s.LastCommand
	}
	if line != "" {
		s.LastCommand = line
	}

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "run", "r":
		return s.cmdRun(args)
	case "continue", "c":
		return s.cmdContinue(args)
	case "step", "s", "si":
		return s.cmdStep(args)
	case "break", "b":
		return s.cmdBreak(args)
	case "delete", "d":
		return s.cmdDelete(args)
	case "enable":
		return s.cmdEnable(args)
	case "disable":
		return s.cmdDisable(args)
	case "print", "p":
		return s.cmdPrint(args)
	case "info", "i":
		return s.cmdInfo(args)
	case "list", "l":
		return s.cmdList(args)
	case "stack":
		return s.cmdStack(args)
	case "reset":
		s.Reset()
		s.Printf("Reset to entry point.\n")
		return nil
	case "help", "h", "?":
		return s.cmdHelp()
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

func (s *Session) cmdRun(args []string) error {
	s.Reset()
	return s.cmdContinue(args)
}

func (s *Session) cmdContinue(args []string) error {
	max := uint64(0)
	if len(args) > 0 {
		n, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid cycle count: %s", args[0])
		}
		max = n
	}

	steps, reason := s.RunUntil(max)
	s.Printf("Ran %d cycle(s): %s at PC=0x%08x\n", steps, reason, s.VM.PC)
	return nil
}

func (s *Session) cmdStep(args []string) error {
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid step count: %s", args[0])
		}
		count = n
	}

	for i := 0; i < count; i++ {
		if !s.Step() {
			s.Printf("Halted at PC=0x%08x (cycle %d)\n", s.VM.PC, s.VM.Cycles)
			return nil
		}
	}
	s.Printf("PC=0x%08x (cycle %d)\n", s.VM.PC, s.VM.Cycles)
	return nil
}

func (s *Session) cmdBreak(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: break <address|label>")
	}
	addr, err := s.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := s.Breakpoints.AddBreakpoint(addr, false, "")
	s.Printf("Breakpoint %d at 0x%08x\n", bp.ID, addr)
	return nil
}

func (s *Session) cmdDelete(args []string) error {
	if len(args) < 1 {
		s.Breakpoints.Clear()
		s.Printf("All breakpoints deleted.\n")
		return nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	if err := s.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}
	s.Printf("Breakpoint %d deleted.\n", id)
	return nil
}

func (s *Session) cmdEnable(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: enable <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	return s.Breakpoints.EnableBreakpoint(id)
}

func (s *Session) cmdDisable(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: disable <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	return s.Breakpoints.DisableBreakpoint(id)
}

func (s *Session) cmdPrint(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: print <register>")
	}
	idx, ok := isa.LookupABI(args[0])
	if !ok {
		return fmt.Errorf("unknown register: %s", args[0])
	}
	s.Printf("%s = 0x%08x (%d)\n", args[0], s.VM.Regs[idx], int32(s.VM.Regs[idx]))
	return nil
}

func (s *Session) cmdInfo(args []string) error {
	if len(args) > 0 && args[0] == "breakpoints" {
		for _, bp := range s.Breakpoints.GetAllBreakpoints() {
			status := "enabled"
			if !bp.Enabled {
				status = "disabled"
			}
			s.Printf("%d: 0x%08x %s (hits=%d)\n", bp.ID, bp.Address, status, bp.HitCount)
		}
		return nil
	}

	s.Printf("PC=0x%08x cycles=%d\n", s.VM.PC, s.VM.Cycles)
	for i := 0; i < len(isa.ABINames); i += 4 {
		s.Printf("%-4s=0x%08x %-4s=0x%08x %-4s=0x%08x %-4s=0x%08x\n",
			isa.ABINames[i], s.VM.Regs[i],
			isa.ABINames[i+1], s.VM.Regs[i+1],
			isa.ABINames[i+2], s.VM.Regs[i+2],
			isa.ABINames[i+3], s.VM.Regs[i+3])
	}
	return nil
}

func (s *Session) cmdList(args []string) error {
	center := s.VM.PC
	if len(args) > 0 {
		addr, err := s.ResolveAddress(args[0])
		if err != nil {
			return err
		}
		center = addr
	}

	before := uint32(CodeContextLinesBefore) * 4
	start := uint32(0)
	if center >= before {
		start = center - before
	}
	end := center + uint32(CodeContextLinesAfter)*4

	for addr := start; addr < end && int(addr) < s.VM.Mem.Len(); addr += 4 {
		marker := "  "
		if addr == s.VM.PC {
			marker = "->"
		}
		s.Printf("%s 0x%08x: %s\n", marker, addr, s.DisassembleAt(addr))
	}
	return nil
}

func (s *Session) cmdStack(args []string) error {
	spIdx, _ := isa.LookupABI("sp")
	sp := s.VM.Regs[spIdx]

	offset := uint32(0)
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid byte offset: %s", args[0])
		}
		if n > StackInspectionMaxOffset {
			n = StackInspectionMaxOffset
		}
		offset = uint32(n)
	}

	start := sp - offset
	s.Printf("sp=0x%08x, showing %d word(s) (%d bytes) from 0x%08x\n", sp, StackDisplayWords, StackDisplayBytes, start)
	for i := 0; i < StackDisplayWords; i++ {
		addr := start + uint32(i*4)
		word, ok := s.VM.Mem.ReadWord(addr)
		if !ok {
			break
		}
		marker := "  "
		if addr == sp {
			marker = "->"
		}
		s.Printf("%s 0x%08x: 0x%08x\n", marker, addr, word)
	}
	return nil
}

func (s *Session) cmdHelp() error {
	s.Printf("commands: run, continue, step [n], break <addr>, delete [id], enable <id>, disable <id>, print <reg>, info [breakpoints], list [addr], stack [offset], reset, help\n")
	return nil
}
