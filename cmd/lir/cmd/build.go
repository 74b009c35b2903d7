package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var buildOutput string

var buildCmd = &cobra.Command{
	Use:   "build <program>",
	Short: "Compile a named example program to an assembly listing",
	Long: `Compile one of pkg/lir's named example programs down to internal/asm
ops and write its disassembly to a file (or stdout), without executing it.
A cache entry is recorded the same way 'lir run' records one, unless
--no-cache is set.

Examples:
  lir build arithmetic
  lir build arithmetic -o arithmetic.lir.asm`,
	Args: cobra.ExactArgs(1),
	RunE: buildExample,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output file (default: stdout)")
}

func buildExample(_ *cobra.Command, args []string) error {
	prog, err := exampleProgram(args[0])
	if err != nil {
		return err
	}
	engine, err := buildEngine()
	if err != nil {
		return err
	}
	sink, err := engine.Compile(prog)
	if err != nil {
		return fmt.Errorf("lir build: %w", err)
	}
	listing := engine.Disassemble(sink)

	if buildOutput == "" {
		fmt.Print(listing)
		return nil
	}
	if err := os.WriteFile(buildOutput, []byte(listing), 0o644); err != nil {
		return fmt.Errorf("lir build: writing %s: %w", buildOutput, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "wrote %s\n", buildOutput)
	}
	return nil
}
