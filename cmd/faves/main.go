// Command faves is the compliance classification CLI.
package main

import (
	"github.com/quantnexusai/faves-v3-benchmark/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
	cli.Execute()
}
