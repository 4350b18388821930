package schema

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/venique/rooster/model"
)

const (
	QuestionsFile    = "questions.csv"
	RosterFile       = "roster.csv"
	ServiceDatesFile = "service_dates.csv"
	DeadlinesFile    = "deadlines.csv"
)

func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open schema table")
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", filepath.Base(path))
	}
	return rows, nil
}

// LoadDir reads the four input tables from dir and validates them together,
// reporting problems from every table at once.
func LoadDir(dir string) (model.Schema, error) {
	var s model.Schema
	var all *multierror.Error

	load := func(file string, parse func([][]string) error) {
		rows, err := readRows(filepath.Join(dir, file))
		if err != nil {
			all = multierror.Append(all, err)
			return
		}
		if err := parse(rows); err != nil {
			all = multierror.Append(all, err)
		}
	}

	load(QuestionsFile, func(rows [][]string) (err error) {
		s.Questions, err = LoadQuestions(rows)
		return
	})
	load(RosterFile, func(rows [][]string) (err error) {
		s.Roster, err = LoadRoster(rows)
		return
	})
	load(ServiceDatesFile, func(rows [][]string) (err error) {
		s.Dates, err = LoadServiceDates(rows)
		return
	})
	load(DeadlinesFile, func(rows [][]string) (err error) {
		s.Deadlines, err = LoadDeadlines(rows)
		return
	})

	return s, all.ErrorOrNil()
}
