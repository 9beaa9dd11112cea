package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("faves %s\n", Version)
			fmt.Printf("  commit:     %s\n", GitCommit)
			fmt.Printf("  built:      %s\n", BuildDate)
			fmt.Printf("  go runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
