package internal

import (
	"slices"

	"github.com/jmoiron/sqlx/types"

	"github.com/sensiblebit/pemkit"
)

// Config holds the runtime configuration for a scan run.
type Config struct {
	InputPath string
	Strict    bool
	DB        *DB
}

// ItemRecord encodes one extracted PEM item and its provenance.
type ItemRecord struct {
	SourcePath   string         `db:"source_path"`
	ItemIndex    int            `db:"item_index"`
	Label        string         `db:"label"`
	Kind         string         `db:"kind"`
	Size         int            `db:"size"`
	SHA256       string         `db:"sha256"`
	DER          []byte         `db:"der"`
	MetadataJSON types.JSONText `db:"metadata"`
}

// itemKinds maps short kind names (used in flags, configs, and the
// database) to example values of the item type they select.
var itemKinds = []struct {
	kind string
	item pemkit.Item
}{
	{"certificate", pemkit.Certificate(nil)},
	{"rsa-key", pemkit.PKCS1Key(nil)},
	{"pkcs8-key", pemkit.PKCS8Key(nil)},
	{"ec-key", pemkit.SEC1Key(nil)},
	{"crl", pemkit.CRL(nil)},
	{"csr", pemkit.CSR(nil)},
	{"public-key", pemkit.SubjectPublicKeyInfo(nil)},
}

// ValidKinds returns the kind names accepted by flags and configs.
func ValidKinds() []string {
	kinds := make([]string, 0, len(itemKinds))
	for _, k := range itemKinds {
		kinds = append(kinds, k.kind)
	}
	return kinds
}

// IsValidKind reports whether kind names a recognized item kind.
func IsValidKind(kind string) bool {
	return slices.Contains(ValidKinds(), kind)
}

// KindOf returns the short kind name for an item.
func KindOf(item pemkit.Item) string {
	switch item.(type) {
	case pemkit.Certificate:
		return "certificate"
	case pemkit.PKCS1Key:
		return "rsa-key"
	case pemkit.PKCS8Key:
		return "pkcs8-key"
	case pemkit.SEC1Key:
		return "ec-key"
	case pemkit.CRL:
		return "crl"
	case pemkit.CSR:
		return "csr"
	case pemkit.SubjectPublicKeyInfo:
		return "public-key"
	}
	return "unknown"
}
