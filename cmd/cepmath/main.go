// Command cepmath declares, validates, and evaluates CEP math extension
// functions outside a host engine.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/cepmath/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
