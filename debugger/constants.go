package debugger

// DisplayUpdateFrequency is the chunk size, in cycles, that the TUI's
// continue/run commands execute between redraws, so register and memory
// panels update live instead of only once the run stops.
const DisplayUpdateFrequency = 100

// Code view context sizes, in source lines before/after PC.
const (
	// CodeContextLinesBefore and CodeContextLinesAfter bound the REPL's
	// "list" command.
	CodeContextLinesBefore = 20
	CodeContextLinesAfter  = 80

	// CodeContextLinesBeforeCompact and CodeContextLinesAfterCompact bound
	// the TUI's disassembly panel, which has far less vertical room.
	CodeContextLinesBeforeCompact = 5
	CodeContextLinesAfterCompact  = 10
)

// Memory hex dump dimensions for the TUI's memory panel.
const (
	MemoryDisplayRows        = 16
	MemoryDisplayColumns     = 16
	MemoryDisplayBytesPerRow = 16
)

// Stack inspection bounds for the "stack" REPL command.
const (
	// StackDisplayWords is how many words the command prints.
	StackDisplayWords = 16

	// StackDisplayBytes is StackDisplayWords in bytes, for the header line.
	StackDisplayBytes = StackDisplayWords * 4

	// StackInspectionMaxOffset caps, in bytes, how far below sp a caller
	// can start the dump. When sp is smaller than the offset the start
	// address wraps around the 32-bit space.
	StackInspectionMaxOffset = 16
)

// Register panel layout for the TUI.
const (
	// RegisterGroupSize is how many registers are printed per row.
	RegisterGroupSize = 5

	// RegisterViewRows is the panel's fixed content height: ceil(32/5)=7
	// register rows, a blank line, and a PC/cycle status line.
	RegisterViewRows = 9
)
