package schema

import (
	"strings"
	"time"

	"github.com/venique/rooster/model"
)

// Tables are CSV exports from a shared spreadsheet, so header matching has to
// tolerate mixed case, stray spaces, non-breaking spaces and a UTF-8 BOM.
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), "")
}

func normalizeCell(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(s)
}

type table struct {
	cols map[string]int
	rows [][]string
}

// indexTable resolves the required column names against the header row,
// reporting every missing column, not just the first.
func indexTable(name string, rows [][]string, required []string) (table, *Error) {
	serr := newError(name)
	if len(rows) == 0 {
		serr.addf("empty table, expected header row with columns %s", strings.Join(required, ", "))
		return table{}, serr
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[normalizeHeader(h)] = i
	}
	for _, col := range required {
		if _, ok := cols[normalizeHeader(col)]; !ok {
			serr.addf("missing required column %q", col)
		}
	}
	if serr.problems.ErrorOrNil() != nil {
		return table{}, serr
	}
	return table{cols: cols, rows: rows[1:]}, serr
}

func (t table) get(row []string, col string) string {
	i, ok := t.cols[normalizeHeader(col)]
	if !ok || i >= len(row) {
		return ""
	}
	return normalizeCell(row[i])
}

// splitDepends parses the comma-joined DependsOn list. Spreadsheet exports of
// empty cells show up as "", "None" or "nan" depending on the tool that wrote
// them; all mean no dependencies.
func splitDepends(s string) []string {
	switch strings.ToLower(s) {
	case "", "none", "nan":
		return nil
	}
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

func LoadQuestions(rows [][]string) ([]model.Question, error) {
	t, serr := indexTable("questions", rows, []string{
		"QuestionID", "QuestionText", "QuestionType", "OptionsSource", "DependsOn", "ShowCondition",
	})
	if err := serr.orNil(); err != nil {
		return nil, err
	}

	var questions []model.Question
	seen := make(map[string]bool)
	for n, row := range t.rows {
		q := model.Question{
			ID:          t.get(row, "QuestionID"),
			Text:        t.get(row, "QuestionText"),
			ReportLabel: t.get(row, "ReportLabel"),
		}
		if q.ID == "" {
			serr.addf("row %d: empty QuestionID", n+2)
			continue
		}
		if seen[q.ID] {
			serr.addf("row %d: duplicate QuestionID %q", n+2, q.ID)
			continue
		}
		if q.Text == "" {
			serr.addf("row %d: empty QuestionText for %q", n+2, q.ID)
		}

		switch qt := model.QuestionType(strings.ToLower(t.get(row, "QuestionType"))); qt {
		case model.TypeRadio, model.TypeText, model.TypeDropdown:
			q.Type = qt
		default:
			serr.addf("row %d: unsupported QuestionType %q for %q", n+2, t.get(row, "QuestionType"), q.ID)
		}

		switch src := strings.ToLower(t.get(row, "OptionsSource")); src {
		case "yes_no":
			q.OptionsSource = model.OptionsYesNo
		case "", "none", "nan":
			q.OptionsSource = model.OptionsNone
		default:
			serr.addf("row %d: unsupported OptionsSource %q for %q", n+2, src, q.ID)
		}

		// Order of appearance is evaluation order: a dependency may only
		// point at a question defined on an earlier row.
		q.DependsOn = splitDepends(t.get(row, "DependsOn"))
		for _, dep := range q.DependsOn {
			if !seen[dep] {
				serr.addf("row %d: %q depends on %q which is not defined earlier", n+2, q.ID, dep)
			}
		}

		if cond := t.get(row, "ShowCondition"); !strings.EqualFold(cond, "none") && cond != "nan" {
			q.ShowCondition = cond
		}

		seen[q.ID] = true
		questions = append(questions, q)
	}

	if err := serr.orNil(); err != nil {
		return nil, err
	}
	return questions, nil
}

func LoadRoster(rows [][]string) ([]model.RosterEntry, error) {
	t, serr := indexTable("roster", rows, []string{"Director", "Serving Girl"})
	if err := serr.orNil(); err != nil {
		return nil, err
	}

	var roster []model.RosterEntry
	seen := make(map[model.RosterEntry]bool)
	for n, row := range t.rows {
		e := model.RosterEntry{
			Director: t.get(row, "Director"),
			Person:   t.get(row, "Serving Girl"),
		}
		if e.Director == "" && e.Person == "" {
			continue // blank spreadsheet row
		}
		if e.Director == "" || e.Person == "" {
			serr.addf("row %d: both Director and Serving Girl are required", n+2)
			continue
		}
		if seen[e] {
			serr.addf("row %d: duplicate roster pair (%s, %s)", n+2, e.Director, e.Person)
			continue
		}
		seen[e] = true
		roster = append(roster, e)
	}

	if err := serr.orNil(); err != nil {
		return nil, err
	}
	return roster, nil
}

func LoadServiceDates(rows [][]string) ([]model.ServiceDate, error) {
	t, serr := indexTable("service_dates", rows, []string{"target_month", "date", "label", "is_service_day"})
	if err := serr.orNil(); err != nil {
		return nil, err
	}

	var dates []model.ServiceDate
	for n, row := range t.rows {
		d := model.ServiceDate{
			TargetMonth: t.get(row, "target_month"),
			Label:       t.get(row, "label"),
		}
		if _, err := time.Parse("2006-01", d.TargetMonth); err != nil {
			serr.addf("row %d: target_month %q is not YYYY-MM", n+2, d.TargetMonth)
		}
		day, err := time.Parse("2006-01-02", t.get(row, "date"))
		if err != nil {
			serr.addf("row %d: date %q is not YYYY-MM-DD", n+2, t.get(row, "date"))
		}
		d.Date = day
		if d.Label == "" {
			serr.addf("row %d: empty label", n+2)
		}
		switch t.get(row, "is_service_day") {
		case "1":
			d.IsServiceDay = true
		case "0", "":
			d.IsServiceDay = false
		default:
			serr.addf("row %d: is_service_day %q is not 0 or 1", n+2, t.get(row, "is_service_day"))
		}
		dates = append(dates, d)
	}

	if err := serr.orNil(); err != nil {
		return nil, err
	}
	return dates, nil
}

func LoadDeadlines(rows [][]string) ([]model.Deadline, error) {
	t, serr := indexTable("deadlines", rows, []string{"month", "deadline_local", "timezone"})
	if err := serr.orNil(); err != nil {
		return nil, err
	}

	var deadlines []model.Deadline
	seen := make(map[string]bool)
	for n, row := range t.rows {
		d := model.Deadline{
			Month:    t.get(row, "month"),
			Timezone: t.get(row, "timezone"),
		}
		if _, err := time.Parse("2006-01", d.Month); err != nil {
			serr.addf("row %d: month %q is not YYYY-MM", n+2, d.Month)
			continue
		}
		// One row per month. The old sheets silently took the first match;
		// that hid real data-entry mistakes, so reject duplicates outright.
		if seen[d.Month] {
			serr.addf("row %d: duplicate deadline for month %s", n+2, d.Month)
			continue
		}
		seen[d.Month] = true

		// Naive wall-clock time; the window gate anchors it to the row's zone.
		local, err := time.Parse("2006-01-02 15:04", t.get(row, "deadline_local"))
		if err != nil {
			serr.addf("row %d: deadline_local %q is not YYYY-MM-DD HH:MM", n+2, t.get(row, "deadline_local"))
			continue
		}
		d.Local = local
		deadlines = append(deadlines, d)
	}

	if err := serr.orNil(); err != nil {
		return nil, err
	}
	return deadlines, nil
}
