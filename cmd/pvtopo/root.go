package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pvtopo",
	Short: "Extract PV plant topology from simulation reports",
	Long: `pvtopo parses PV plant simulation reports (PDF, DOCX, HTML or plain
text) and reconstructs the plant topology: array configurations, their
inverter and MPPT assignments, per-inverter capacity and production,
orientations and loss factors.

The result is a deterministic JSON document, or a markdown/html summary
for human readers.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(versionCmd)
}
