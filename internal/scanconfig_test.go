package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pemkit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScanConfig(t *testing.T) {
	// WHY: The YAML config drives extraction filtering; kind names must be
	// validated at load time so typos fail fast instead of extracting nothing.
	t.Parallel()

	path := writeConfig(t, `
strict: true
extract:
  kinds: [certificate, crl]
  outDir: ./der
`)
	cfg, err := LoadScanConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Strict {
		t.Error("strict not parsed")
	}
	if cfg.Extract == nil || cfg.Extract.OutDir != "./der" {
		t.Fatalf("extract section = %+v", cfg.Extract)
	}
	if !cfg.Extract.Wants("certificate") || !cfg.Extract.Wants("crl") {
		t.Error("configured kinds not wanted")
	}
	if cfg.Extract.Wants("pkcs8-key") {
		t.Error("unconfigured kind wanted")
	}
}

func TestLoadScanConfig_unknownKind(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "extract:\n  kinds: [certifcate]\n")
	if _, err := LoadScanConfig(path); err == nil {
		t.Error("typo in kind name accepted")
	}
}

func TestExtractConfig_wantsDefaults(t *testing.T) {
	// WHY: No config, an empty kind list, and the "all" keyword must all
	// select every kind.
	t.Parallel()

	var nilCfg *ExtractConfig
	if !nilCfg.Wants("certificate") {
		t.Error("nil config should want everything")
	}
	empty := &ExtractConfig{}
	all := &ExtractConfig{Kinds: []string{"all"}}
	for _, kind := range ValidKinds() {
		if !empty.Wants(kind) || !all.Wants(kind) {
			t.Errorf("kind %s not selected by default", kind)
		}
	}
}

func TestKindOf_coversAllKinds(t *testing.T) {
	// WHY: Every item type must map to a distinct, valid kind name; the
	// database and configs key on it.
	t.Parallel()

	seen := map[string]bool{}
	for _, k := range itemKinds {
		got := KindOf(k.item)
		if got != k.kind {
			t.Errorf("KindOf(%T) = %q, want %q", k.item, got, k.kind)
		}
		if seen[got] {
			t.Errorf("kind %q mapped twice", got)
		}
		seen[got] = true
		if !IsValidKind(got) {
			t.Errorf("kind %q not in ValidKinds", got)
		}
	}
}
