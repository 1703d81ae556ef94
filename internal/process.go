package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sensiblebit/pemkit"
)

// itemMetadata is stored as JSON alongside each cataloged item.
type itemMetadata struct {
	ScannedAt time.Time `json:"scanned_at"`
	Strict    bool      `json:"strict,omitempty"`
}

// ProcessFile extracts every recognized PEM item from path ("-" reads
// stdin) and catalogs it into cfg.DB.
func ProcessFile(path string, cfg *Config) error {
	if path == "-" {
		return ProcessReader("stdin", os.Stdin, cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return ProcessReader(path, f, cfg)
}

// ProcessReader extracts every recognized PEM item from r and catalogs it
// into cfg.DB under the given source name. Inputs containing no PEM
// sections produce zero records and no error.
func ProcessReader(name string, r io.Reader, cfg *Config) error {
	rd := pemkit.NewReader(r)
	rd.Strict = cfg.Strict

	meta, err := json.Marshal(itemMetadata{ScannedAt: time.Now().UTC(), Strict: cfg.Strict})
	if err != nil {
		return fmt.Errorf("encoding item metadata: %w", err)
	}

	index := 0
	for {
		item, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("extracting items from %s: %w", name, err)
		}

		sum := sha256.Sum256(item.DER())
		rec := ItemRecord{
			SourcePath:   name,
			ItemIndex:    index,
			Label:        item.Label(),
			Kind:         KindOf(item),
			Size:         len(item.DER()),
			SHA256:       hex.EncodeToString(sum[:]),
			DER:          item.DER(),
			MetadataJSON: meta,
		}
		if err := cfg.DB.InsertItem(rec); err != nil {
			return fmt.Errorf("cataloging item %d from %s: %w", index, name, err)
		}
		index++
	}

	slog.Debug("processed input", "source", name, "items", index)
	return nil
}
