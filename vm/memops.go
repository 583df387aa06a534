package vm

import "github.com/rv32isim/rv32i-emulator/isa"

// execLoad reads from memory at addr per funct3's width and extension rule.
// ok is false when the access does not fit entirely within memory; callers
// must leave the destination register unchanged in that case.
func (v *VM) execLoad(funct3 isa.Funct3, addr uint32) (value uint32, ok bool) {
	switch funct3 {
	case isa.F3LB:
		b, ok := v.Mem.ReadByte(addr)
		if !ok {
			return 0, false
		}
		return uint32(int32(int8(b))), true
	case isa.F3LBU:
		b, ok := v.Mem.ReadByte(addr)
		if !ok {
			return 0, false
		}
		return uint32(b), true
	case isa.F3LH:
		h, ok := v.Mem.ReadHalf(addr)
		if !ok {
			return 0, false
		}
		return uint32(int32(int16(h))), true
	case isa.F3LHU:
		h, ok := v.Mem.ReadHalf(addr)
		if !ok {
			return 0, false
		}
		return uint32(h), true
	case isa.F3LW:
		return v.Mem.ReadWord(addr)
	}
	return 0, false
}

// execStore writes value to memory at addr per funct3's width. ok is false
// when the access does not fit entirely within memory, in which case memory
// is left unchanged.
func (v *VM) execStore(funct3 isa.Funct3, addr uint32, value uint32) (ok bool) {
	switch funct3 {
	case isa.F3SB:
		return v.Mem.WriteByte(addr, value)
	case isa.F3SH:
		return v.Mem.WriteHalf(addr, value)
	case isa.F3SW:
		return v.Mem.WriteWord(addr, value)
	}
	return false
}
