package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps one row per response plus one row per date-label answer,
// so new date columns never require a schema change. The reconciled header
// is computed at read time by unioning labels in first-seen order.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sqliteError("append.begin_tx", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO response (id, submitted_at, month, director, person, reason)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Timestamp.Format(time.RFC3339),
		rec.Month,
		rec.Director,
		rec.Person,
		rec.Reason,
	)
	if err != nil {
		return sqliteError("append.insert_response", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO response_value (response_id, label, position, value)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return sqliteError("append.values.prepare", err)
	}
	defer stmt.Close()

	for i, label := range rec.Labels {
		if _, err := stmt.ExecContext(ctx, rec.ID, label, i, rec.Values[label]); err != nil {
			return sqliteError("append.values.insert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return sqliteError("append.commit", err)
	}
	return nil
}

func (s *SQLiteStore) All(ctx context.Context) ([]string, [][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			r.id, r.submitted_at, r.month, r.director, r.person, r.reason,
			v.label, v.value
		FROM response r
		LEFT OUTER JOIN response_value v ON (r.id = v.response_id)
		ORDER BY r.seq, v.position`)
	if err != nil {
		return nil, nil, sqliteError("read", err)
	}
	defer rows.Close()

	header := Header(nil)
	labelCol := make(map[string]int)

	type resp struct {
		fixed  []string
		values map[string]string
	}
	var out []resp
	byID := make(map[string]int)

	for rows.Next() {
		var id, at, month, director, person, reason string
		var label, value sql.NullString
		if err := rows.Scan(&id, &at, &month, &director, &person, &reason, &label, &value); err != nil {
			return nil, nil, sqliteError("read.scan", err)
		}

		i, ok := byID[id]
		if !ok {
			i = len(out)
			byID[id] = i
			out = append(out, resp{
				fixed:  []string{at, month, director, person, reason},
				values: make(map[string]string),
			})
		}
		if label.Valid {
			if _, ok := labelCol[label.String]; !ok {
				labelCol[label.String] = len(header)
				header = append(header, label.String)
			}
			out[i].values[label.String] = value.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, sqliteError("read.rows", err)
	}

	flat := make([][]string, len(out))
	for i, r := range out {
		row := make([]string, len(header))
		copy(row, r.fixed)
		for label, value := range r.values {
			row[labelCol[label]] = value
		}
		flat[i] = row
	}
	return header, flat, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// sqliteError classifies lock contention as transient so the retry wrapper
// takes another shot at it.
func sqliteError(op string, err error) error {
	transient := false
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		transient = serr.Code == sqlite3.ErrBusy || serr.Code == sqlite3.ErrLocked
	}
	return &PersistenceError{Op: op, Err: err, Transient: transient}
}
