package internal

import (
	"path/filepath"
	"testing"
)

func TestDB_insertAndQuery(t *testing.T) {
	// WHY: Verifies the full insert/select path through sqlx struct mapping,
	// including kind filtering and hash lookup.
	t.Parallel()
	db := newTestDB(t)

	records := []ItemRecord{
		testRecord("a.pem", 0, "certificate", "aaaa"),
		testRecord("a.pem", 1, "pkcs8-key", "bbbb"),
		testRecord("b.pem", 0, "certificate", "aaaa"),
	}
	for _, rec := range records {
		if err := db.InsertItem(rec); err != nil {
			t.Fatal(err)
		}
	}

	all, err := db.GetAllItems()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("GetAllItems returned %d records, want 3", len(all))
	}

	certs, err := db.GetItemsByKind("certificate")
	if err != nil {
		t.Fatal(err)
	}
	if len(certs) != 2 {
		t.Errorf("GetItemsByKind(certificate) returned %d, want 2", len(certs))
	}

	byHash, err := db.GetItemBySHA256("bbbb")
	if err != nil {
		t.Fatal(err)
	}
	if byHash == nil || byHash.Kind != "pkcs8-key" {
		t.Errorf("GetItemBySHA256(bbbb) = %+v", byHash)
	}

	missing, err := db.GetItemBySHA256("cccc")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("GetItemBySHA256 for unknown hash = %+v, want nil", missing)
	}
}

func TestDB_duplicateInsertIgnored(t *testing.T) {
	// WHY: Re-scanning the same file must not fail or duplicate rows; the
	// (source_path, item_index) primary key dedupes.
	t.Parallel()
	db := newTestDB(t)

	rec := testRecord("a.pem", 0, "certificate", "aaaa")
	if err := db.InsertItem(rec); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertItem(rec); err != nil {
		t.Fatal(err)
	}

	all, err := db.GetAllItems()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("duplicate insert produced %d rows, want 1", len(all))
	}
}

func TestDB_scanSummary(t *testing.T) {
	// WHY: The summary groups the three key encodings under one count and
	// reports distinct payloads, which the scan command prints.
	t.Parallel()
	db := newTestDB(t)

	records := []ItemRecord{
		testRecord("x.pem", 0, "certificate", "h1"),
		testRecord("x.pem", 1, "rsa-key", "h2"),
		testRecord("x.pem", 2, "pkcs8-key", "h3"),
		testRecord("x.pem", 3, "ec-key", "h4"),
		testRecord("x.pem", 4, "crl", "h5"),
		testRecord("x.pem", 5, "csr", "h6"),
		testRecord("x.pem", 6, "public-key", "h7"),
		testRecord("y.pem", 0, "certificate", "h1"),
	}
	for _, rec := range records {
		if err := db.InsertItem(rec); err != nil {
			t.Fatal(err)
		}
	}

	s, err := db.GetScanSummary()
	if err != nil {
		t.Fatal(err)
	}
	if s.Certificates != 2 || s.PrivateKeys != 3 || s.CRLs != 1 || s.CSRs != 1 || s.PublicKeys != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.Unique != 7 {
		t.Errorf("Unique = %d, want 7 (h1 shared between two rows)", s.Unique)
	}
	if s.Total() != 8 {
		t.Errorf("Total() = %d, want 8", s.Total())
	}
}

func TestDB_saveAndLoad(t *testing.T) {
	// WHY: VACUUM INTO persistence and ATTACH-based loading must round-trip
	// records between the in-memory database and disk.
	t.Parallel()

	path := filepath.Join(t.TempDir(), "items.db")

	src := newTestDB(t)
	if err := src.InsertItem(testRecord("a.pem", 0, "certificate", "aaaa")); err != nil {
		t.Fatal(err)
	}
	if err := src.SaveToDisk(path); err != nil {
		t.Fatal(err)
	}

	dst := newTestDB(t)
	if err := dst.LoadFromDisk(path); err != nil {
		t.Fatal(err)
	}

	all, err := dst.GetAllItems()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].SourcePath != "a.pem" || all[0].Kind != "certificate" {
		t.Errorf("loaded records = %+v", all)
	}
}
