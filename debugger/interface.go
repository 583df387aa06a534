package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RunCLI runs the line-oriented REPL debugger interface over stdin/stdout.
func RunCLI(s *Session) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(rv32i-dbg) ")

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "q" || line == "exit" {
			fmt.Println("Exiting debugger...")
			break
		}

		if err := s.ExecuteCommand(line); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

		if out := s.GetOutput(); out != "" {
			fmt.Print(out)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	return nil
}

// RunTUI runs the interactive text-mode inspector.
func RunTUI(s *Session) error {
	t := NewTUI(s)
	return t.Run()
}
