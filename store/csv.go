package store

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
)

// CSVStore is the local-file backend: a single CSV whose header grows by
// union as new date labels appear. Appending rewrites the file through a
// temp file so a crash never leaves a half-written log.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return &PersistenceError{Op: "append", Err: err}
	}

	header, rows, err := s.read()
	if err != nil {
		return err
	}

	header = unionHeader(header, Header(rec.Labels))
	rows = append(rows, rec.Row(header))
	return s.write(header, rows)
}

func (s *CSVStore) All(ctx context.Context) ([]string, [][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, nil, &PersistenceError{Op: "read", Err: err}
	}
	header, rows, err := s.read()
	if err != nil {
		return nil, nil, err
	}
	return header, rows, nil
}

func (s *CSVStore) Close() error { return nil }

// read returns the current header and rows, padded to header width. A
// missing file is an empty store, not an error.
func (s *CSVStore) read() ([]string, [][]string, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return Header(nil), nil, nil
	}
	if err != nil {
		return nil, nil, &PersistenceError{Op: "open", Err: err}
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, &PersistenceError{Op: "parse", Err: err}
	}
	if len(all) == 0 {
		return Header(nil), nil, nil
	}

	header := all[0]
	rows := all[1:]
	for i, row := range rows {
		for len(row) < len(header) {
			row = append(row, "")
		}
		rows[i] = row
	}
	return header, rows, nil
}

func (s *CSVStore) write(header []string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".responses-*.csv")
	if err != nil {
		return &PersistenceError{Op: "write", Err: err}
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.Write(header); err != nil {
		tmp.Close()
		return &PersistenceError{Op: "write", Err: err}
	}
	for _, row := range rows {
		for len(row) < len(header) {
			row = append(row, "")
		}
		if err := cw.Write(row); err != nil {
			tmp.Close()
			return &PersistenceError{Op: "write", Err: err}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return &PersistenceError{Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Op: "write", Err: err}
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &PersistenceError{Op: "write", Err: err}
	}
	return nil
}
