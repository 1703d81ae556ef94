package internal

import (
	"encoding/pem"
	"testing"
)

// newTestDB returns an in-memory inventory database that closes with the test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// pemSection wraps payload in a -----BEGIN label----- section.
func pemSection(t *testing.T, label string, payload []byte) string {
	t.Helper()
	return string(pem.EncodeToMemory(&pem.Block{Type: label, Bytes: payload}))
}

// testPayload returns a deterministic byte sequence of the given size.
func testPayload(size int) []byte {
	p := make([]byte, size)
	for i := range p {
		p[i] = byte(i*13 + 5)
	}
	return p
}

// testRecord builds a minimal valid item record for insertion tests.
func testRecord(source string, index int, kind string, sum string) ItemRecord {
	return ItemRecord{
		SourcePath:   source,
		ItemIndex:    index,
		Label:        "CERTIFICATE",
		Kind:         kind,
		Size:         4,
		SHA256:       sum,
		DER:          []byte{0x30, 0x02, 0x01, 0x00},
		MetadataJSON: []byte(`{}`),
	}
}
