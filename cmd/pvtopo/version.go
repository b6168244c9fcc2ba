package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags.
var (
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pvtopo %s\n", version)
		fmt.Printf("  Commit: %s\n", commit)
		fmt.Printf("  Go:     %s\n", runtime.Version())
	},
}
