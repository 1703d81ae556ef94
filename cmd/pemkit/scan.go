package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sensiblebit/pemkit/internal"
	"github.com/spf13/cobra"
)

var scanConfigPath string

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan and catalog PEM items",
	Long:  "Scan a file or directory for PEM sections. Every recognized item is cataloged with its kind, size, and payload digest, and a summary is printed. Use - to read from stdin.",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanConfigPath, "config", "c", "", "Path to scan config YAML")

	registerCompletion(scanCmd, "config", fileCompletion)
}

func runScan(cmd *cobra.Command, args []string) error {
	internal.SetupLogger(logLevel)
	inputPath := args[0]

	if scanConfigPath != "" {
		scanCfg, err := internal.LoadScanConfig(scanConfigPath)
		if err != nil {
			return fmt.Errorf("loading scan config: %w", err)
		}
		strict = strict || scanCfg.Strict
	}

	db, err := internal.NewDB()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if dbPath != "" {
		if _, err := os.Stat(dbPath); err == nil {
			if err := db.LoadFromDisk(dbPath); err != nil {
				return fmt.Errorf("loading database %s: %w", dbPath, err)
			}
		}
	}

	cfg := &internal.Config{
		InputPath: inputPath,
		Strict:    strict,
		DB:        db,
	}

	// Ingest
	if inputPath == "-" {
		if err := internal.ProcessFile("-", cfg); err != nil {
			return fmt.Errorf("processing stdin: %w", err)
		}
	} else {
		if _, err := os.Stat(inputPath); err != nil {
			return fmt.Errorf("input path %s: %w", inputPath, err)
		}

		err := filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				if err := internal.ProcessFile(path, cfg); err != nil {
					slog.Warn("Error processing file", "path", path, "error", err)
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("walking input path: %w", err)
		}
	}

	if dbPath != "" {
		if err := db.SaveToDisk(dbPath); err != nil {
			return fmt.Errorf("saving database %s: %w", dbPath, err)
		}
	}

	// Print summary
	summary, err := db.GetScanSummary()
	if err != nil {
		return fmt.Errorf("generating summary: %w", err)
	}
	fmt.Printf("\nFound %d PEM item(s), %d unique payload(s)\n", summary.Total(), summary.Unique)
	if summary.Total() > 0 {
		fmt.Printf("  Certificates: %d\n", summary.Certificates)
		fmt.Printf("  Private keys: %d\n", summary.PrivateKeys)
		fmt.Printf("  CRLs:         %d\n", summary.CRLs)
		fmt.Printf("  CSRs:         %d\n", summary.CSRs)
		fmt.Printf("  Public keys:  %d\n", summary.PublicKeys)
	}

	if err := db.DumpDB(); err != nil {
		return fmt.Errorf("dumping database: %w", err)
	}

	return nil
}
