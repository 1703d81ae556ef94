package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sensiblebit/pemkit"
	"github.com/sensiblebit/pemkit/internal"
	"github.com/spf13/cobra"
)

var (
	extractKind       string
	extractOutDir     string
	extractConfigPath string
	extractStdout     bool
	extractForce      bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract DER payloads from a PEM file",
	Long:  "Decode the PEM sections in a file and write each selected payload as a raw DER file, numbered in input order. Use - to read from stdin and --stdout to concatenate payloads to stdout instead.",
	Example: `  pemkit extract bundle.pem
  pemkit extract bundle.pem --kind certificate --out ./der
  pemkit extract bundle.pem --kind pkcs8-key --stdout > key.der`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractKind, "kind", "k", "all", "Item kind to extract: "+strings.Join(internal.ValidKinds(), ", ")+", or all")
	extractCmd.Flags().StringVarP(&extractOutDir, "out", "o", ".", "Output directory for DER files")
	extractCmd.Flags().StringVarP(&extractConfigPath, "config", "c", "", "Path to scan config YAML (overrides --kind and --out)")
	extractCmd.Flags().BoolVar(&extractStdout, "stdout", false, "Write raw DER to stdout instead of files")
	extractCmd.Flags().BoolVarP(&extractForce, "force", "f", false, "Allow raw DER output to a terminal")

	registerCompletion(extractCmd, "kind", fixedCompletion(append(internal.ValidKinds(), "all")...))
	registerCompletion(extractCmd, "out", directoryCompletion)
	registerCompletion(extractCmd, "config", fileCompletion)
}

func runExtract(cmd *cobra.Command, args []string) error {
	internal.SetupLogger(logLevel)
	inputPath := args[0]

	selection := &internal.ExtractConfig{Kinds: []string{extractKind}}
	if extractKind != "all" && !internal.IsValidKind(extractKind) {
		return fmt.Errorf("unknown item kind %q (want %s, or all)", extractKind, strings.Join(internal.ValidKinds(), ", "))
	}

	if extractConfigPath != "" {
		scanCfg, err := internal.LoadScanConfig(extractConfigPath)
		if err != nil {
			return fmt.Errorf("loading scan config: %w", err)
		}
		strict = strict || scanCfg.Strict
		if scanCfg.Extract != nil {
			selection = scanCfg.Extract
			if selection.OutDir != "" {
				extractOutDir = selection.OutDir
			}
		}
	}

	if extractStdout && !extractForce && isatty.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("refusing to write raw DER to a terminal (use --force or redirect)")
	}

	var in io.Reader
	base := "stdin"
	if inputPath == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("opening %s: %w", inputPath, err)
		}
		defer f.Close()
		in = f
		base = strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	}

	if !extractStdout {
		if err := os.MkdirAll(extractOutDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", extractOutDir, err)
		}
	}

	rd := pemkit.NewReader(in)
	rd.Strict = strict

	written := 0
	for i := 0; ; i++ {
		item, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", inputPath, err)
		}
		kind := internal.KindOf(item)
		if !selection.Wants(kind) {
			continue
		}

		if extractStdout {
			if _, err := os.Stdout.Write(item.DER()); err != nil {
				return fmt.Errorf("writing to stdout: %w", err)
			}
		} else {
			outPath := filepath.Join(extractOutDir, fmt.Sprintf("%s.%d.der", base, i))
			if err := os.WriteFile(outPath, item.DER(), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			slog.Info("Wrote DER payload", "path", outPath, "kind", kind, "size", len(item.DER()))
		}
		written++
	}

	if !extractStdout {
		fmt.Printf("Extracted %d item(s) to %s\n", written, extractOutDir)
	}
	return nil
}
