// Package store persists submitted availability records. The store is an
// append-only log with header reconciliation: columns are only ever added,
// never dropped, and historical rows are never rewritten.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/venique/rooster/model"
)

// Fixed leading columns of every response row, before the per-date columns.
const (
	ColTimestamp = "timestamp"
	ColMonth     = "Availability month"
	ColDirector  = "Director"
	ColPerson    = "Serving Girl"
	ColReason    = "Reason"
)

var baseColumns = []string{ColTimestamp, ColMonth, ColDirector, ColPerson, ColReason}

// Record is one submitted response, ready to append. Never mutated after
// being written.
type Record struct {
	ID        string
	Timestamp time.Time // UTC
	Month     string
	Director  string
	Person    string
	Reason    string
	Labels    []string // date-label column order
	Values    map[string]string
}

// NewRecord assembles a record from a validated submission. Only answers for
// the given date labels make it into the record; anything else in the answer
// set (answers to questions hidden by the time of submit included) is left
// behind here. Answer casing is normalized to "Yes"/"No".
func NewRecord(id string, now time.Time, month, director, person, reason string, answers model.AnswerSet, labels []string) Record {
	rec := Record{
		ID:        id,
		Timestamp: now.UTC(),
		Month:     month,
		Director:  director,
		Person:    person,
		Reason:    strings.TrimSpace(reason),
		Labels:    dedupe(labels),
		Values:    make(map[string]string, len(labels)),
	}
	for _, label := range rec.Labels {
		if strings.EqualFold(answers[label], "Yes") {
			rec.Values[label] = "Yes"
		} else {
			rec.Values[label] = "No"
		}
	}
	return rec
}

// Header is the canonical column order for a set of date labels: the fixed
// columns followed by the labels, deduplicated by first occurrence.
func Header(labels []string) []string {
	return append(append([]string{}, baseColumns...), dedupe(labels)...)
}

// Row flattens the record against an arbitrary header. Unknown columns come
// out empty, which is what header reconciliation relies on.
func (r Record) Row(header []string) []string {
	row := make([]string, len(header))
	for i, col := range header {
		switch col {
		case ColTimestamp:
			row[i] = r.Timestamp.Format(time.RFC3339)
		case ColMonth:
			row[i] = r.Month
		case ColDirector:
			row[i] = r.Director
		case ColPerson:
			row[i] = r.Person
		case ColReason:
			row[i] = r.Reason
		default:
			row[i] = r.Values[col]
		}
	}
	return row
}

func dedupe(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

// unionHeader extends existing with any columns of want that it lacks.
// Existing column order is never disturbed.
func unionHeader(existing, want []string) []string {
	out := append([]string{}, existing...)
	have := make(map[string]bool, len(existing))
	for _, col := range existing {
		have[col] = true
	}
	for _, col := range want {
		if !have[col] {
			have[col] = true
			out = append(out, col)
		}
	}
	return out
}

// Store is the append-only response log. Implementations must keep appended
// rows immutable and reconcile headers by union only.
type Store interface {
	Append(ctx context.Context, rec Record) error
	// All returns the reconciled header and every historical row, oldest
	// first.
	All(ctx context.Context) (header []string, rows [][]string, err error)
	Close() error
}
