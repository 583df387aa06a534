package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rv32isim/rv32i-emulator/api"
	"github.com/rv32isim/rv32i-emulator/assembler"
	"github.com/rv32isim/rv32i-emulator/config"
	"github.com/rv32isim/rv32i-emulator/debugger"
	"github.com/rv32isim/rv32i-emulator/disasm"
	"github.com/rv32isim/rv32i-emulator/isa"
	"github.com/rv32isim/rv32i-emulator/loader"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; using built-in defaults\n", err)
		cfg = config.DefaultConfig()
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:     "rv32i",
		Short:   "RV32I assembler, interpreter, and interactive debugger",
		Version: Version,
	}

	root.AddCommand(newAssembleCmd())
	root.AddCommand(newRunCmd(cfg))
	root.AddCommand(newDebugCmd(cfg))
	root.AddCommand(newTUICmd(cfg))
	root.AddCommand(newAPIServerCmd(cfg))

	return root
}

func newAssembleCmd() *cobra.Command {
	var (
		output  string
		listing bool
		symbols bool
	)

	cmd := &cobra.Command{
		Use:   "assemble <file.s>",
		Short: "Assemble a source file to machine code or a disassembly listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0]) // #nosec G304 -- user-supplied path is the whole point of a CLI assembler
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}

			image, err := assembler.AssembleFile(string(source), args[0])
			if err != nil {
				return err
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output) // #nosec G304 -- user-supplied output path
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				out = f
			}

			if symbols {
				for _, line := range loader.SymbolTable(image) {
					fmt.Fprintln(out, line)
				}
				return nil
			}

			if listing {
				return loader.WriteListing(out, image)
			}
			return loader.WriteBinary(out, image)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&listing, "listing", false, "emit an annotated disassembly listing instead of raw binary")
	cmd.Flags().BoolVar(&symbols, "symbols", false, "dump the resolved symbol table and exit")
	return cmd
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	var (
		memSize   int
		maxCycles uint64
		trace     bool
	)

	cmd := &cobra.Command{
		Use:   "run <file.s>",
		Short: "Assemble and run a program to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := assembleFile(args[0])
			if err != nil {
				return err
			}

			machine := loader.LoadVM(image, memSize)

			traceMaxCycles := maxCycles
			if traceMaxCycles == 0 {
				traceMaxCycles = cfg.Execution.MaxCycles
			}

			var steps int
			if trace {
				for {
					word, ok := machine.Mem.ReadWord(machine.PC)
					if !ok || word == 0 || uint64(steps) >= traceMaxCycles {
						break
					}
					fmt.Printf("0x%08X: %s\n", machine.PC, disasm.Disassemble(word, machine.PC))
					if !machine.Step() {
						break
					}
					steps++
				}
			} else {
				steps = machine.Run(maxCycles)
			}

			if trace {
				fmt.Printf("halted after %d steps at pc=0x%08X cycles=%d\n", steps, machine.PC, machine.Cycles)
			}
			for i, name := range isa.ABINames {
				fmt.Printf("%-4s = 0x%08X\n", name, machine.Regs[i])
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&memSize, "mem-size", cfg.Execution.MemSize, "memory size in bytes")
	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", cfg.Execution.MaxCycles, "maximum cycles before forced halt")
	cmd.Flags().BoolVar(&trace, "trace", cfg.Execution.EnableTrace, "print each instruction as it executes")
	return cmd
}

func newDebugCmd(cfg *config.Config) *cobra.Command {
	var memSize int

	cmd := &cobra.Command{
		Use:   "debug <file.s>",
		Short: "Assemble a program and start the line-mode debugger REPL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newLoadedSession(args[0], memSize)
			if err != nil {
				return err
			}
			return debugger.RunCLI(session)
		},
	}

	cmd.Flags().IntVar(&memSize, "mem-size", cfg.Execution.MemSize, "memory size in bytes")
	return cmd
}

func newTUICmd(cfg *config.Config) *cobra.Command {
	var memSize int

	cmd := &cobra.Command{
		Use:   "tui <file.s>",
		Short: "Assemble a program and start the full-screen TUI debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newLoadedSession(args[0], memSize)
			if err != nil {
				return err
			}
			return debugger.RunTUI(session)
		},
	}

	cmd.Flags().IntVar(&memSize, "mem-size", cfg.Execution.MemSize, "memory size in bytes")
	return cmd
}

func newAPIServerCmd(cfg *config.Config) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "api-server",
		Short: "Start the HTTP/WebSocket session API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := api.NewServer(port)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			errChan := make(chan error, 1)
			go func() { errChan <- server.Start() }()

			select {
			case err := <-errChan:
				return err
			case <-sigChan:
				fmt.Println("\nshutting down api server...")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(ctx)
			}
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", cfg.API.Port, "HTTP listen port")
	return cmd
}

func assembleFile(path string) (*assembler.ProgramImage, error) {
	source, err := os.ReadFile(path) // #nosec G304 -- user-supplied path is the whole point of a CLI assembler
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return assembler.AssembleFile(string(source), path)
}

func newLoadedSession(path string, memSize int) (*debugger.Session, error) {
	image, err := assembleFile(path)
	if err != nil {
		return nil, err
	}

	session := debugger.NewSession(memSize)
	session.Load(image)
	return session, nil
}
