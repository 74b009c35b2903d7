package cmd

import (
	"fmt"
	"strings"

	"github.com/lir-lang/lir/internal/vm"
	"github.com/spf13/cobra"
)

var (
	runList  bool
	runInput string
)

var runCmd = &cobra.Command{
	Use:   "run <program>",
	Short: "Compile and execute a named example program",
	Long: `Compile one of pkg/lir's named example programs and run it against
the standard tape-memory device, printing whatever value the program's
body evaluates to.

Examples:
  # List the programs available to run
  lir run --list

  # Run one
  lir run arithmetic`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExample,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runList, "list", false, "list the available example programs and exit")
	runCmd.Flags().StringVar(&runInput, "stdin", "", "characters fed to the program's Get ops as simulated stdin")
}

func runExample(_ *cobra.Command, args []string) error {
	if runList {
		fmt.Println(strings.Join(listExampleNames(), "\n"))
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("lir run: expected exactly one program name (see --list)")
	}

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
		return fmt.Errorf("lir run: %w", err)
	}

	var device vm.Device
	if runInput != "" {
		device = vm.NewTestingDevice(runInput)
	} else {
		device = vm.NewStandardDevice()
	}
	if err := engine.Run(sink, device); err != nil {
		return fmt.Errorf("lir run: %w", err)
	}
	if td, ok := device.(*vm.TestingDevice); ok {
		fmt.Print(td.OutputString())
	}
	return nil
}
