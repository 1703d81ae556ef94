package main

import (
	"github.com/spf13/cobra"
)

var (
	logLevel string
	dbPath   string
	strict   bool
)

var rootCmd = &cobra.Command{
	Use:   "pemkit",
	Short: "PEM extraction tool",
	Long:  "Extract DER payloads from PEM-armored files, catalog them in SQLite, and export them by kind.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (default: in-memory)")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Reject whitespace inside base64 section bodies")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(inspectCmd)
}
