package parser

import "strings"

// Line is one lexed source line: either a label definition or an
// instruction with its mnemonic and raw (unparsed) operand strings.
type Line struct {
	Number     int
	Raw        string // original text, for error context
	Label      string // non-empty if this line is "label:"
	Mnemonic   string
	Operands   []string
}

// IsBlank reports whether the line has no label and no mnemonic, i.e. it
// was empty or pure comment.
func (l *Line) IsBlank() bool {
	return l.Label == "" && l.Mnemonic == ""
}

// lexLines strips comments, lowercases, and splits every source line into
// a Line record. Blank and comment-only lines produce a blank Line rather
// than being dropped, so line numbers stay aligned with the source for
// error reporting.
func lexLines(source string) []*Line {
	rawLines := strings.Split(source, "\n")
	lines := make([]*Line, 0, len(rawLines))

	for i, raw := range rawLines {
		lineNo := i + 1
		stripped := stripComment(raw)
		trimmed := strings.TrimSpace(strings.ToLower(stripped))

		l := &Line{Number: lineNo, Raw: raw}
		if trimmed == "" {
			lines = append(lines, l)
			continue
		}

		if strings.HasSuffix(trimmed, ":") && !strings.ContainsAny(trimmed[:len(trimmed)-1], " \t") {
			l.Label = trimmed[:len(trimmed)-1]
			lines = append(lines, l)
			continue
		}

		fields := tokenizeInstruction(trimmed)
		if len(fields) > 0 {
			l.Mnemonic = fields[0]
			l.Operands = fields[1:]
		}
		lines = append(lines, l)
	}

	return lines
}

// stripComment removes everything from the first '#' to end-of-line.
func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

// tokenizeInstruction splits "mnemonic op1, op2, op3" into
// ["mnemonic", "op1", "op2", "op3"], treating commas and whitespace
// interchangeably as separators while keeping "offset(reg)" memory
// operands intact.
func tokenizeInstruction(line string) []string {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	return fields
}
