package logbook

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sac/internal/schema"
)

func TestTailReturnsRecentLines(t *testing.T) {
	dir := t.TempDir()
	book, err := New(filepath.Join(dir, "atividade.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines := book.Tail(3)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestEntriesUseStoreTimezone(t *testing.T) {
	dir := t.TempDir()
	book, err := New(filepath.Join(dir, "atividade.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	book.now = func() time.Time { return fixed }
	book.Warn("locked file")
	lines := book.Tail(1)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	want := fixed.In(schema.Location()).Format(schema.TimeLayout)
	if !strings.HasPrefix(lines[0], want) {
		t.Fatalf("line %q does not start with %q", lines[0], want)
	}
	if !strings.Contains(lines[0], "WARN") {
		t.Fatalf("line %q missing level", lines[0])
	}
}

func TestNilLogbookIsSilent(t *testing.T) {
	var book *Logbook
	book.Info("ignored")
	if lines := book.Tail(5); lines != nil {
		t.Fatalf("nil logbook returned lines: %v", lines)
	}
	if book.Path() != "" {
		t.Fatalf("nil logbook path = %q", book.Path())
	}
}
