package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <program>",
	Short: "Print a previously-compiled program's cached disassembly",
	Long: `Look up <program> in the on-disk compile cache (populated by a
prior 'lir run' or 'lir build') and print its recorded disassembly,
without recompiling. Fails if the program has never been compiled with
caching enabled.

Example:
  lir build arithmetic   # populates the cache
  lir disasm arithmetic  # reads it back`,
	Args: cobra.ExactArgs(1),
	RunE: disasmCached,
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}

func disasmCached(_ *cobra.Command, args []string) error {
	if noCache {
		return fmt.Errorf("lir disasm: --no-cache was set, nothing to read")
	}
	name := args[0]
	store, err := resolveCache()
	if err != nil {
		return err
	}
	entry, ok, err := store.GetProcedure(name)
	if err != nil {
		return fmt.Errorf("lir disasm: %w", err)
	}
	if !ok {
		return fmt.Errorf("lir disasm: %s has no cache entry (run 'lir build %s' first)", name, name)
	}
	fmt.Print(entry.Disassembly)
	return nil
}
