// Command apiserver runs the classification API without the CLI surface.
// It is the binary the container image ships.
package main

import (
	"fmt"
	"os"

	"github.com/quantnexusai/faves-v3-benchmark/internal/interfaces/cli"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate

	cmd := cli.NewRootCommand()
	cmd.SetArgs(append([]string{"serve"}, os.Args[1:]...))
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
