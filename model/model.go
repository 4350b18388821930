package model

import "time"

type QuestionType string

const (
	TypeRadio    QuestionType = "radio"
	TypeText     QuestionType = "text"
	TypeDropdown QuestionType = "dropdown"
)

type OptionsSource string

const (
	OptionsYesNo OptionsSource = "yes_no"
	OptionsNone  OptionsSource = "none"
)

type Question struct {
	ID            string        `json:"id"`
	Text          string        `json:"text"`
	Type          QuestionType  `json:"type"`
	OptionsSource OptionsSource `json:"optionsSource"`
	DependsOn     []string      `json:"dependsOn,omitempty"`
	ShowCondition string        `json:"showCondition,omitempty"`
	ReportLabel   string        `json:"reportLabel,omitempty"`
}

// Label is the column name used for this question in reports.
func (q Question) Label() string {
	if q.ReportLabel != "" {
		return q.ReportLabel
	}
	return q.Text
}

func (q Question) IsYesNo() bool {
	return q.Type == TypeRadio && q.OptionsSource == OptionsYesNo
}

type RosterEntry struct {
	Director string `json:"director"`
	Person   string `json:"person"`
}

type ServiceDate struct {
	TargetMonth  string    `json:"targetMonth"` // YYYY-MM
	Date         time.Time `json:"date"`
	Label        string    `json:"label"`
	IsServiceDay bool      `json:"isServiceDay"`
}

type Deadline struct {
	Month    string    `json:"month"` // YYYY-MM
	Local    time.Time `json:"deadlineLocal"`
	Timezone string    `json:"timezone"`
}

// AnswerSet maps question id (or date label) to the current answer.
// Empty string means unanswered.
type AnswerSet map[string]string

func (a AnswerSet) Answered(id string) bool {
	return a[id] != ""
}

// Schema bundles the four loaded input tables.
type Schema struct {
	Questions []Question
	Roster    []RosterEntry
	Dates     []ServiceDate
	Deadlines []Deadline
}

// ServiceDays returns the service-day rows for month, in table order.
func (s Schema) ServiceDays(month string) []ServiceDate {
	var days []ServiceDate
	for _, d := range s.Dates {
		if d.TargetMonth == month && d.IsServiceDay {
			days = append(days, d)
		}
	}
	return days
}

// DeadlineFor returns the deadline row for month.
// The loader guarantees at most one row per month.
func (s Schema) DeadlineFor(month string) (Deadline, bool) {
	for _, d := range s.Deadlines {
		if d.Month == month {
			return d, true
		}
	}
	return Deadline{}, false
}
