// Package cmd is the lir CLI's Cobra command tree, grounded on the
// teacher's own cmd/dwscript/cmd: package-level flag vars, init()
// registering each subcommand, and a shared exitWithError helper.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configPath string
	cachePath  string
	noCache    bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "lir",
	Short: "LIR compiler and tape-VM toolkit",
	Long: `lir builds and runs programs against the LIR compiler backend: a
typed Low Intermediate Representation with algebraic types, parametric
generics, and constant evaluation, lowered to a stack-based assembly that
runs on a tape-memory virtual machine.

There is no LIR source syntax — programs are built from internal/lir's
Expr/Procedure constructors, and this CLI operates on the small set of
named example programs pkg/lir ships (see 'lir run --list').`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a lir.yaml session config (default: search upward from the current directory)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "path to the on-disk compile cache (default: <project dir>/.lir-cache.json)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the on-disk compile cache for this invocation")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
