package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rv32isim/rv32i-emulator/isa"
)

// TUI is the interactive text-mode inspector: registers, memory,
// disassembly, and breakpoints driven by a Session, rendered with
// tcell/tview.
type TUI struct {
	Session *Session
	App     *tview.Application
	Pages   *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	RegisterView    *tview.TextView
	MemoryView      *tview.TextView
	DisassemblyView *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField

	MemoryAddress uint32
}

// NewTUI builds the view tree and key bindings around a Session.
func NewTUI(s *Session) *TUI {
	t := &TUI{
		Session: s,
		App:     tview.NewApplication(),
	}

	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()

	return t
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true).SetScrollable(false)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.DisassemblyView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.DisassemblyView.SetBorder(true).SetTitle(" Disassembly ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	t.LeftPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.DisassemblyView, 0, 2, false).
		AddItem(t.MemoryView, 0, 2, false)

	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, RegisterViewRows+2, 0, false).
		AddItem(t.BreakpointsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.LeftPanel, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF9:
			t.executeCommand("break")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key == tcell.KeyEnter {
		cmd := t.CommandInput.GetText()
		if cmd != "" {
			t.executeCommand(cmd)
			t.CommandInput.SetText("")
		}
	}
}

func (t *TUI) executeCommand(cmd string) {
	t.Session.Output.Reset()

	if fields := strings.Fields(cmd); len(fields) > 0 {
		switch strings.ToLower(fields[0]) {
		case "continue", "c", "run", "r":
			t.runContinuouslyWithLiveDisplay(cmd)
			return
		}
	}

	err := t.Session.ExecuteCommand(cmd)
	output := t.Session.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}

	t.RefreshAll()
}

// runContinuouslyWithLiveDisplay drives "run"/"continue" in chunks of
// DisplayUpdateFrequency cycles so the register and memory panels stay
// live during a long run instead of jumping straight to the end state.
func (t *TUI) runContinuouslyWithLiveDisplay(cmd string) {
	fields := strings.Fields(cmd)
	if strings.ToLower(fields[0]) == "run" || strings.ToLower(fields[0]) == "r" {
		t.Session.Reset()
	}

	totalMax := uint64(0)
	if len(fields) > 1 {
		if n, err := strconv.ParseUint(fields[1], 10, 64); err == nil {
			totalMax = n
		}
	}

	var totalSteps uint64
	for {
		chunk := uint64(DisplayUpdateFrequency)
		if totalMax > 0 {
			remaining := totalMax - totalSteps
			if remaining == 0 {
				t.WriteOutput(fmt.Sprintf("Ran %d cycle(s): cycle limit reached at PC=0x%08x\n", totalSteps, t.Session.VM.PC))
				return
			}
			if remaining < chunk {
				chunk = remaining
			}
		}

		steps, reason := t.Session.RunUntil(chunk)
		totalSteps += uint64(steps)
		t.RefreshAll()

		if reason != "cycle limit reached" {
			t.WriteOutput(fmt.Sprintf("Ran %d cycle(s): %s at PC=0x%08x\n", totalSteps, reason, t.Session.VM.PC))
			return
		}
	}
}

// WriteOutput appends text to the output view and scrolls to the end.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel from the session's current state.
func (t *TUI) RefreshAll() {
	t.UpdateRegisterView()
	t.UpdateMemoryView()
	t.UpdateDisassemblyView()
	t.UpdateBreakpointsView()
	t.App.Draw()
}

// UpdateRegisterView redraws the 32-register file, PC, and cycle counter.
func (t *TUI) UpdateRegisterView() {
	t.RegisterView.Clear()

	v := t.Session.VM
	var lines []string

	for row := 0; row*RegisterGroupSize < len(isa.ABINames); row++ {
		var cols []string
		for col := 0; col < RegisterGroupSize; col++ {
			i := row*RegisterGroupSize + col
			if i >= len(isa.ABINames) {
				break
			}
			cols = append(cols, fmt.Sprintf("%-4s=0x%08X", isa.ABINames[i], v.Regs[i]))
		}
		lines = append(lines, strings.Join(cols, "  "))
	}

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("PC=0x%08X  cycles=%d", v.PC, v.Cycles))

	t.RegisterView.SetText(strings.Join(lines, "\n"))
}

// UpdateMemoryView redraws a MemoryDisplayRows x MemoryDisplayColumns
// hex/ASCII dump starting at MemoryAddress (or PC, if unset).
func (t *TUI) UpdateMemoryView() {
	t.MemoryView.Clear()

	addr := t.MemoryAddress
	if addr == 0 {
		addr = t.Session.VM.PC
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("[yellow]Address: 0x%08X[white]", addr))

	for row := 0; row < MemoryDisplayRows; row++ {
		rowAddr := addr + uint32(row*MemoryDisplayBytesPerRow)
		line := fmt.Sprintf("0x%08X: ", rowAddr)

		var hexBytes []string
		var asciiBytes []byte

		for col := 0; col < MemoryDisplayColumns; col++ {
			b, ok := t.Session.VM.Mem.ReadByte(rowAddr + uint32(col))
			if !ok {
				hexBytes = append(hexBytes, "??")
				asciiBytes = append(asciiBytes, '.')
				continue
			}
			hexBytes = append(hexBytes, fmt.Sprintf("%02X", b))
			if b >= 32 && b < 127 {
				asciiBytes = append(asciiBytes, b)
			} else {
				asciiBytes = append(asciiBytes, '.')
			}
		}

		line += strings.Join(hexBytes, " ") + "  " + string(asciiBytes)
		lines = append(lines, line)
	}

	t.MemoryView.SetText(strings.Join(lines, "\n"))
}

// UpdateDisassemblyView redraws a window of disassembled instructions
// around PC, marking the current instruction and any breakpoints.
func (t *TUI) UpdateDisassemblyView() {
	t.DisassemblyView.Clear()

	pc := t.Session.VM.PC
	before := uint32(CodeContextLinesBeforeCompact) * 4
	startAddr := uint32(0)
	if pc >= before {
		startAddr = pc - before
	}

	windowLines := CodeContextLinesBeforeCompact + CodeContextLinesAfterCompact
	var lines []string
	for i := 0; i < windowLines; i++ {
		addr := startAddr + uint32(i*4)
		if int(addr) >= t.Session.VM.Mem.Len() {
			break
		}

		marker := "  "
		color := "white"
		if addr == pc {
			marker = "->"
			color = "yellow"
		}
		if t.Session.Breakpoints.GetBreakpoint(addr) != nil {
			marker = "* "
		}

		line := fmt.Sprintf("[%s]%s 0x%08X: %s[white]", color, marker, addr, t.Session.DisassembleAt(addr))
		if sym := t.findSymbolForAddress(addr); sym != "" {
			line = fmt.Sprintf("[%s]%s 0x%08X: %s  <%s>[white]", color, marker, addr, t.Session.DisassembleAt(addr), sym)
		}

		lines = append(lines, line)
	}

	t.DisassemblyView.SetText(strings.Join(lines, "\n"))
}

// UpdateBreakpointsView redraws the breakpoint list with hit counts.
func (t *TUI) UpdateBreakpointsView() {
	t.BreakpointsView.Clear()

	var lines []string
	bps := t.Session.Breakpoints.GetAllBreakpoints()
	if len(bps) == 0 {
		lines = append(lines, "[yellow]No breakpoints set[white]")
	}
	for _, bp := range bps {
		status, color := "enabled", "green"
		if !bp.Enabled {
			status, color = "disabled", "red"
		}
		line := fmt.Sprintf("%d: [%s]%s[white] 0x%08X", bp.ID, color, status, bp.Address)
		if sym := t.findSymbolForAddress(bp.Address); sym != "" {
			line += fmt.Sprintf(" <%s>", sym)
		}
		line += fmt.Sprintf(" (hits: %d)", bp.HitCount)
		lines = append(lines, line)
	}

	t.BreakpointsView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) findSymbolForAddress(addr uint32) string {
	for sym, symAddr := range t.Session.Symbols {
		if symAddr == addr {
			return sym
		}
	}
	return ""
}

// Run starts the TUI event loop.
func (t *TUI) Run() error {
	t.RefreshAll()

	t.WriteOutput("[green]RV32I Simulator Debugger[white]\n")
	t.WriteOutput("Press F1 for help, F5 to continue, F11 to step\n")
	t.WriteOutput("Type 'help' for the command list\n\n")

	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop halts the TUI event loop.
func (t *TUI) Stop() {
	t.App.Stop()
}
