// Command callir normalizes call expression ASTs into a tagged IR.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/callir/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
