package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"sac/internal/schema"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return New(filepath.Join(dir, "respostas.csv"), nil)
}

func record(pairs ...string) *Record {
	rec := NewRecord()
	for i := 0; i+1 < len(pairs); i += 2 {
		rec.Set(pairs[i], pairs[i+1])
	}
	return rec
}

func TestReadAllMissingFileYieldsEmptyTable(t *testing.T) {
	s := newTestStore(t)
	table, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !table.Empty() {
		t.Fatalf("expected empty table, got %d rows", len(table.Rows))
	}
}

func TestAppendRoundTrip(t *testing.T) {
	s := newTestStore(t)
	rec := record(
		schema.ColRecordID, "id-1",
		schema.ColName, "Bruno",
		"q1", "3",
		"q2", "N/A",
	)
	if err := s.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}
	table, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(table.Rows))
	}
	for col, want := range map[string]string{
		schema.ColRecordID: "id-1",
		schema.ColName:     "Bruno",
		"q1":               "3",
		"q2":               "N/A",
	} {
		if got := table.Get(0, col); got != want {
			t.Fatalf("%s = %q, want %q", col, got, want)
		}
	}
}

func TestAppendDisjointColumnsUnionsHeader(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append(record(schema.ColRecordID, "id-1", "A", "a1", "B", "b1")); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := s.Append(record(schema.ColRecordID, "id-2", "A", "a2", "C", "c2")); err != nil {
		t.Fatalf("second append: %v", err)
	}
	table, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	want := []string{schema.ColRecordID, "A", "B", "C"}
	if !reflect.DeepEqual(table.Columns, want) {
		t.Fatalf("columns = %v, want %v", table.Columns, want)
	}
	if got := table.Get(0, "C"); got != "" {
		t.Fatalf("first row C = %q, want empty back-fill", got)
	}
	if got := table.Get(1, "B"); got != "" {
		t.Fatalf("second row B = %q, want empty back-fill", got)
	}
	if got := table.Get(0, "B"); got != "b1" {
		t.Fatalf("first row B = %q, want b1 (old column corrupted)", got)
	}
}

func TestReadAllIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append(record(schema.ColRecordID, "id-1", "q1", "5")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	first, err := s.ReadAll()
	if err != nil {
		t.Fatalf("first ReadAll: %v", err)
	}
	second, err := s.ReadAll()
	if err != nil {
		t.Fatalf("second ReadAll: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated reads differ: %v vs %v", first, second)
	}
}

func TestUpdateCell(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append(record(schema.ColRecordID, "id-1", "q1", "3")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.UpdateCell("id-1", "q1", "N/A"); err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	table, _ := s.ReadAll()
	if len(table.Rows) != 1 {
		t.Fatalf("rows = %d, want 1 (update must not append)", len(table.Rows))
	}
	if got := table.Get(0, "q1"); got != "N/A" {
		t.Fatalf("q1 = %q, want N/A", got)
	}
}

func TestUpdateUnknownRecordFails(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append(record(schema.ColRecordID, "id-1", "q1", "3")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	err := s.UpdateCell("missing", "q1", "4")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestEnsureRecordIDsBackfillsLegacyRows(t *testing.T) {
	s := newTestStore(t)
	// Simulate a legacy file without the id column.
	legacy := "Nome,q1\nAna,3\nBruno,4\n"
	if err := os.WriteFile(s.Path(), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}
	n := 0
	gen := func() string { n++; return fmt.Sprintf("gen-%d", n) }
	if err := s.EnsureRecordIDs(gen); err != nil {
		t.Fatalf("EnsureRecordIDs: %v", err)
	}
	table, _ := s.ReadAll()
	if !table.HasColumn(schema.ColRecordID) {
		t.Fatalf("id column missing after back-fill")
	}
	if got := table.Get(0, schema.ColRecordID); got != "gen-1" {
		t.Fatalf("row 0 id = %q", got)
	}
	if got := table.Get(1, schema.ColRecordID); got != "gen-2" {
		t.Fatalf("row 1 id = %q", got)
	}
	if got := table.Get(1, "q1"); got != "4" {
		t.Fatalf("existing cell lost in back-fill: q1 = %q", got)
	}
}

func TestReadAllDecodesLatin1(t *testing.T) {
	s := newTestStore(t)
	// "Ana Conceição" with ç/ã encoded as Latin-1 single bytes.
	raw := []byte("Nome,q1\nAna Concei\xe7\xe3o,5\n")
	if err := os.WriteFile(s.Path(), raw, 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if got := table.Get(0, "Nome"); got != "Ana Conceição" {
		t.Fatalf("Nome = %q, want decoded Latin-1", got)
	}
}

func TestWrittenFileCarriesBOM(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append(record(schema.ColRecordID, "id-1", "q1", "3")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	raw, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) < 3 || raw[0] != 0xEF || raw[1] != 0xBB || raw[2] != 0xBF {
		t.Fatalf("file does not start with UTF-8 BOM")
	}
}

func TestMalformedRowIsSkippedNotFatal(t *testing.T) {
	s := newTestStore(t)
	raw := "Nome,q1\nAna,3\n\"unterminated,5\nBruno,4\n"
	if err := os.WriteFile(s.Path(), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if table.Empty() {
		t.Fatalf("expected surviving rows despite malformed line")
	}
	if got := table.Get(0, "Nome"); got != "Ana" {
		t.Fatalf("first row Nome = %q", got)
	}
}
