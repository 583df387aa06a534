package vm

// DefaultMemSize is the interpreter's default flat-memory size in bytes.
const DefaultMemSize = 4096

// DefaultMaxCycles bounds Run when the caller does not specify a limit. It
// exists to keep an interactive session from hanging on an infinite loop;
// it is advisory, not architectural.
const DefaultMaxCycles = 5000

// NumRegisters is the size of the RV32I integer register file.
const NumRegisters = 32
