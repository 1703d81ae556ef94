package main

import (
	"fmt"

	"github.com/sensiblebit/pemkit/internal"
	"github.com/spf13/cobra"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "List the PEM items in a file",
	Long:  "List every recognized PEM section in a file with its label, kind, payload size, and SHA-256 digest. Payloads are not parsed. Use - to read from stdin.",
	Example: `  pemkit inspect bundle.pem
  pemkit inspect bundle.pem --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format: text or json")

	registerCompletion(inspectCmd, "format", fixedCompletion("text", "json"))
}

func runInspect(cmd *cobra.Command, args []string) error {
	internal.SetupLogger(logLevel)

	results, err := internal.InspectFile(args[0], strict)
	if err != nil {
		return err
	}

	output, err := internal.FormatInspectResults(results, inspectFormat)
	if err != nil {
		return err
	}

	fmt.Print(output)
	return nil
}
