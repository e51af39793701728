// internal/store/store.go
//
// Flat-file CSV record store. One header row, one row per submission.
// Every mutation is read-modify-write through an atomic temp-file +
// rename, so a reader never observes a partial table. Single-writer
// assumption: a file held open by a spreadsheet surfaces as ErrFileLocked
// with a remediation hint, there is no retry or queueing.

package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"sac/internal/logbook"
	"sac/internal/schema"
)

// Sentinel errors surfaced to the user-action boundary.
var (
	ErrRecordNotFound = errors.New("store: record not found")
	ErrFileLocked     = errors.New("store: database file is locked, close the spreadsheet holding it open")
)

// utf8BOM prefixes every written file so spreadsheets on Windows open
// accented text correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store binds the CSV database path to a logbook.
type Store struct {
	path string
	log  *logbook.Logbook
}

// New creates a store for the given database path.
func New(path string, log *logbook.Logbook) *Store {
	return &Store{path: path, log: log}
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// ReadAll loads the whole table as raw text. A missing or unreadable
// file yields an empty table, never an error: the form must stay usable
// before the first submission. Three encodings are tried in order so
// files produced under other locales keep loading.
func (s *Store) ReadAll() (*Table, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("database unreadable, treating as empty: %v", err)
		}
		return &Table{}, nil
	}
	text := decodeFallback(raw)
	table, err := parseCSV(text)
	if err != nil {
		s.log.Warn("database parse failed, treating as empty: %v", err)
		return &Table{}, nil
	}
	return table, nil
}

// decodeFallback tries UTF-8 with BOM, plain UTF-8, then a Latin-1
// best-effort, mirroring how the files were historically produced.
func decodeFallback(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		// Latin-1 decoding cannot fail on arbitrary bytes, but keep
		// the raw text rather than dropping the table.
		return string(raw)
	}
	return string(decoded)
}

// parseCSV reads header + rows. Short rows contribute empty cells for
// the missing columns only; they never abort the read.
func parseCSV(text string) (*Table, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, err
	}
	table := &Table{Columns: header}
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed row: skip it, keep the rest of the table.
			continue
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = fields[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Append adds one submission. New columns introduced by the record are
// appended to the header; pre-existing rows read back empty (treated as
// not-applicable) for them.
func (s *Store) Append(rec *Record) error {
	table, err := s.ReadAll()
	if err != nil {
		return err
	}
	for _, col := range rec.Columns() {
		table.EnsureColumn(col)
	}
	row := make(map[string]string, len(rec.columns))
	for _, col := range rec.Columns() {
		row[col] = rec.Get(col)
	}
	table.Rows = append(table.Rows, row)
	if err := s.writeAtomic(table); err != nil {
		return err
	}
	s.log.Info("record %s appended (%d rows total)", rec.Get(schema.ColRecordID), len(table.Rows))
	return nil
}

// UpdateCell rewrites a single cell of the row identified by record id.
func (s *Store) UpdateCell(id, column, value string) error {
	return s.UpdateRow(id, map[string]string{column: value})
}

// UpdateRow rewrites several cells of one row in a single atomic pass.
// Columns not yet in the header are added; other rows are untouched.
func (s *Store) UpdateRow(id string, changes map[string]string) error {
	table, err := s.ReadAll()
	if err != nil {
		return err
	}
	idx := table.FindRow(schema.ColRecordID, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	for col, val := range changes {
		table.EnsureColumn(col)
		table.Rows[idx][col] = val
	}
	if err := s.writeAtomic(table); err != nil {
		return err
	}
	s.log.Info("record %s updated (%d cells)", id, len(changes))
	return nil
}

// EnsureRecordIDs back-fills ids for rows written by versions that
// predate the Registro_ID column. The generator is injected so tests
// stay deterministic.
func (s *Store) EnsureRecordIDs(generate func() string) error {
	table, err := s.ReadAll()
	if err != nil {
		return err
	}
	if table.Empty() {
		return nil
	}
	changed := false
	table.EnsureColumn(schema.ColRecordID)
	for _, row := range table.Rows {
		if strings.TrimSpace(row[schema.ColRecordID]) == "" {
			row[schema.ColRecordID] = generate()
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := s.writeAtomic(table); err != nil {
		return err
	}
	s.log.Info("back-filled record ids for legacy rows")
	return nil
}

// WriteTable persists an externally assembled table, used by the export
// command. Same atomicity guarantees as the mutation paths.
func (s *Store) WriteTable(table *Table) error {
	return s.writeAtomic(table)
}

// writeAtomic writes the table to a sibling temp file and renames it
// over the destination. A crash mid-write leaves the old file intact.
func (s *Store) writeAtomic(table *Table) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return wrapLocked(err)
	}
	tmp := s.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return wrapLocked(err)
	}
	if err := writeCSV(file, table); err != nil {
		file.Close()
		os.Remove(tmp)
		return wrapLocked(err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return wrapLocked(err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return wrapLocked(err)
	}
	return nil
}

func writeCSV(w io.Writer, table *Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return err
	}
	fields := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, col := range table.Columns {
			fields[i] = row[col]
		}
		if err := writer.Write(fields); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// wrapLocked maps sharing/permission failures to ErrFileLocked so the
// UI can tell the operator to close the spreadsheet; anything else
// passes through wrapped.
func wrapLocked(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.EACCES) {
		return fmt.Errorf("%w: %v", ErrFileLocked, err)
	}
	return fmt.Errorf("store: write database: %w", err)
}
