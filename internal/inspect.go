package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sensiblebit/pemkit"
)

// InspectResult holds the listing details for one extracted item. The
// payload is summarized (kind, size, digest), never parsed.
type InspectResult struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Kind   string `json:"kind"`
	Size   int    `json:"size"`
	SHA256 string `json:"sha256"`
}

// InspectFile lists all recognized PEM items in a file ("-" reads stdin).
func InspectFile(path string, strict bool) ([]InspectResult, error) {
	if path == "-" {
		return InspectReader(os.Stdin, strict)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	results, err := InspectReader(f, strict)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", path, err)
	}
	return results, nil
}

// InspectReader lists all recognized PEM items read from r.
func InspectReader(r io.Reader, strict bool) ([]InspectResult, error) {
	rd := pemkit.NewReader(r)
	rd.Strict = strict

	var results []InspectResult
	for {
		item, err := rd.Next()
		if err == io.EOF {
			return results, nil
		}
		if err != nil {
			return nil, err
		}

		sum := sha256.Sum256(item.DER())
		results = append(results, InspectResult{
			Index:  len(results),
			Label:  item.Label(),
			Kind:   KindOf(item),
			Size:   len(item.DER()),
			SHA256: hex.EncodeToString(sum[:]),
		})
	}
}

// FormatInspectResults renders results as "text" or "json".
func FormatInspectResults(results []InspectResult, format string) (string, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding inspect results: %w", err)
		}
		return string(out) + "\n", nil
	case "text":
		var b strings.Builder
		for _, r := range results {
			fmt.Fprintf(&b, "[%d] %-20s %-12s %6d bytes  sha256=%s\n",
				r.Index, r.Label, r.Kind, r.Size, r.SHA256)
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", format)
	}
}
