// Package loader turns an assembled ProgramImage into the two output forms
// the assemble subcommand can produce: a raw little-endian binary, or an
// annotated disassembly listing.
package loader

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/rv32isim/rv32i-emulator/assembler"
	"github.com/rv32isim/rv32i-emulator/disasm"
	"github.com/rv32isim/rv32i-emulator/vm"
)

// WriteBinary writes the image's machine-code words as a flat, little-endian
// byte stream — the concatenation of the encoded words, in address order.
func WriteBinary(w io.Writer, image *assembler.ProgramImage) error {
	buf := make([]byte, 4*len(image.Words))
	for i, word := range image.Words {
		binary.LittleEndian.PutUint32(buf[i*4:], word)
	}
	_, err := w.Write(buf)
	return err
}

// WriteListing writes an annotated disassembly: address, hex word,
// disassembled text, and the source line number that produced it, if known.
// The pseudo-instruction expansion log follows, once, under "Expansions:".
func WriteListing(w io.Writer, image *assembler.ProgramImage) error {
	bw := bufio.NewWriter(w)

	for i, word := range image.Words {
		addr := uint32(i * 4) // #nosec G115 -- program images are bounded by memory size
		line := fmt.Sprintf("0x%08X: %08X  %s", addr, word, disasm.Disassemble(word, addr))
		if srcLine, ok := image.AddressLines[addr]; ok {
			line += fmt.Sprintf("  ; L%d", srcLine)
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}

	if len(image.ExpansionLog) > 0 {
		if _, err := fmt.Fprintln(bw, "\nExpansions:"); err != nil {
			return err
		}
		for _, entry := range image.ExpansionLog {
			if _, err := fmt.Fprintln(bw, entry); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// LoadVM assembles a fresh interpreter of the given memory size with the
// image's words installed, ready to Step/Run from address zero.
func LoadVM(image *assembler.ProgramImage, memSize int) *vm.VM {
	machine := vm.NewVM(memSize)
	machine.LoadProgram(image.Words)
	return machine
}

// SymbolTable renders a sorted "name = 0x........" listing of an image's
// resolved labels, for the assemble subcommand's --symbols flag.
func SymbolTable(image *assembler.ProgramImage) []string {
	if image.Symbols == nil {
		return nil
	}
	all := image.Symbols.All()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%-20s = 0x%08X", name, all[name]))
	}
	return lines
}
