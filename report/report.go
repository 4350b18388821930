// Package report builds the admin-facing views over the response log: the
// full export, the non-responder set for the current cycle, and the roster
// pool still allowed to pick their name.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/venique/rooster/model"
	"github.com/venique/rooster/store"
)

// Response is one parsed row of the store.
type Response struct {
	Timestamp time.Time
	Month     string
	Director  string
	Person    string
	Reason    string
	Values    map[string]string // date label → "Yes"/"No"
}

// Parse maps raw store rows back into responses. Column matching is
// order-insensitive and tolerant of header case, since exported files get
// reimported after manual edits.
func Parse(header []string, rows [][]string) []Response {
	fixed := map[string]int{}
	var labels []string
	labelIdx := map[string]int{}
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case strings.ToLower(store.ColTimestamp):
			fixed[store.ColTimestamp] = i
		case strings.ToLower(store.ColMonth):
			fixed[store.ColMonth] = i
		case strings.ToLower(store.ColDirector):
			fixed[store.ColDirector] = i
		case strings.ToLower(store.ColPerson):
			fixed[store.ColPerson] = i
		case strings.ToLower(store.ColReason):
			fixed[store.ColReason] = i
		default:
			labels = append(labels, col)
			labelIdx[col] = i
		}
	}

	cell := func(row []string, i int, ok bool) string {
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	out := make([]Response, 0, len(rows))
	for _, row := range rows {
		var r Response
		i, ok := fixed[store.ColTimestamp]
		if at, err := time.Parse(time.RFC3339, cell(row, i, ok)); err == nil {
			r.Timestamp = at
		}
		i, ok = fixed[store.ColMonth]
		r.Month = cell(row, i, ok)
		i, ok = fixed[store.ColDirector]
		r.Director = cell(row, i, ok)
		i, ok = fixed[store.ColPerson]
		r.Person = cell(row, i, ok)
		i, ok = fixed[store.ColReason]
		r.Reason = cell(row, i, ok)

		r.Values = make(map[string]string, len(labels))
		for _, label := range labels {
			if v := cell(row, labelIdx[label], true); v != "" {
				r.Values[label] = v
			}
		}
		out = append(out, r)
	}
	return out
}

// Latest picks the most recent response per roster pair for a month. The
// store keeps every historical row; reporting treats the newest as
// authoritative.
func Latest(responses []Response, month string) map[model.RosterEntry]Response {
	latest := make(map[model.RosterEntry]Response)
	for _, r := range responses {
		if r.Month != month {
			continue
		}
		key := model.RosterEntry{Director: r.Director, Person: r.Person}
		if prev, ok := latest[key]; !ok || r.Timestamp.After(prev.Timestamp) {
			latest[key] = r
		}
	}
	return latest
}

// NonResponders lists roster pairs with no response for the month, in roster
// order.
func NonResponders(roster []model.RosterEntry, responses []Response, month string) []model.RosterEntry {
	responded := Latest(responses, month)
	var missing []model.RosterEntry
	for _, pair := range roster {
		if _, ok := responded[pair]; !ok {
			missing = append(missing, pair)
		}
	}
	return missing
}

// AvailablePersons returns the people under a director who have not yet
// responded this month, sorted by name.
func AvailablePersons(roster []model.RosterEntry, responses []Response, director, month string) []string {
	responded := Latest(responses, month)
	var names []string
	for _, pair := range roster {
		if pair.Director != director {
			continue
		}
		if _, ok := responded[pair]; ok {
			continue
		}
		names = append(names, pair.Person)
	}
	sort.Strings(names)
	return names
}

// WriteCSV streams the full store dump.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		padded := row
		for len(padded) < len(header) {
			padded = append(padded, "")
		}
		if err := cw.Write(padded); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteNonRespondersCSV streams the non-responder pairs.
func WriteNonRespondersCSV(w io.Writer, pairs []model.RosterEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{store.ColDirector, store.ColPerson}); err != nil {
		return err
	}
	for _, pair := range pairs {
		if err := cw.Write([]string{pair.Director, pair.Person}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Receipt renders a submission summary the respondent can keep.
func Receipt(rec store.Record) string {
	var b strings.Builder
	b.WriteString("Availability Submission Summary\n")
	fmt.Fprintf(&b, "Timestamp: %s\n", rec.Timestamp.Format(time.RFC3339))
	b.WriteString(strings.Repeat("-", 40))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s: %s\n", store.ColMonth, rec.Month)
	fmt.Fprintf(&b, "%s: %s\n", store.ColDirector, rec.Director)
	fmt.Fprintf(&b, "%s: %s\n", store.ColPerson, rec.Person)
	for _, label := range rec.Labels {
		fmt.Fprintf(&b, "%s: %s\n", label, rec.Values[label])
	}
	if rec.Reason != "" {
		fmt.Fprintf(&b, "%s: %s\n", store.ColReason, rec.Reason)
	}
	return b.String()
}
