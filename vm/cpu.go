package vm

// VM is the RV32I interpreter: a register file, program counter, cycle
// counter, and flat memory, plus a private backup of the last-loaded
// machine-code image used by Reset. It is single-threaded and owns its
// state exclusively — separate instances never share memory or registers.
type VM struct {
	Regs   [NumRegisters]uint32
	PC     uint32
	Cycles uint64
	Mem    *Memory

	program []uint32
}

// NewVM allocates an interpreter with the given memory size, all state
// zeroed and no program loaded.
func NewVM(memSize int) *VM {
	return &VM{Mem: NewMemory(memSize)}
}

// LoadProgram replaces the program image: it zeroes memory, writes each
// word as four little-endian bytes starting at address 0, and retains a
// backup for Reset. It does not touch the register file, PC, or cycle
// counter.
func (v *VM) LoadProgram(words []uint32) {
	v.Mem.Reset()
	for i, w := range words {
		v.Mem.WriteWord(uint32(i*4), w)
	}
	v.program = append([]uint32(nil), words...)
}

// Reset zeroes the register file, PC, and cycle counter, then reloads the
// backed-up program image, preserving the memory buffer's identity.
func (v *VM) Reset() {
	v.Regs = [NumRegisters]uint32{}
	v.PC = 0
	v.Cycles = 0
	v.Mem.Reset()
	for i, w := range v.program {
		v.Mem.WriteWord(uint32(i*4), w)
	}
}

// reg reads register index i; index 0 always reads 0.
func (v *VM) reg(i uint32) uint32 {
	if i == 0 {
		return 0
	}
	return v.Regs[i]
}

// setReg writes register index i; writes to register 0 are silently
// discarded.
func (v *VM) setReg(i uint32, value uint32) {
	if i == 0 {
		return
	}
	v.Regs[i] = value
}
