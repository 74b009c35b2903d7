// Command lir builds and runs LIR example programs against the
// tape-memory VM. See cmd/lir/cmd for the subcommand tree.
package main

import (
	"fmt"
	"os"

	"github.com/lir-lang/lir/cmd/lir/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
