// Package form is the conditional form engine: given the declarative question
// list and the answers collected so far, it decides which questions are
// active, evaluates yes_count show conditions, and enforces the minimum
// availability rule.
package form

import (
	"fmt"
	"strings"

	"github.com/venique/rooster/model"
)

type State string

const (
	StateHidden   State = "hidden"
	StateVisible  State = "visible"
	StateAnswered State = "answered"
)

type QuestionView struct {
	model.Question
	State State `json:"state"`
}

// Resolve recomputes every question's state from scratch against the current
// answers. Earlier versions of the sheet logic kept once-shown questions
// visible for the rest of the session; recomputing fresh each pass keeps
// render state a pure function of the answer set. Answers belonging to
// now-hidden questions are retained in the set and only dropped when the
// record is assembled at submit time.
func Resolve(questions []model.Question, answers model.AnswerSet) []QuestionView {
	views := make([]QuestionView, len(questions))
	for i, q := range questions {
		views[i] = QuestionView{Question: q, State: resolveOne(questions, q, answers)}
	}
	return views
}

func resolveOne(questions []model.Question, q model.Question, answers model.AnswerSet) State {
	for _, dep := range q.DependsOn {
		if !answers.Answered(dep) {
			return StateHidden
		}
	}

	// Unparseable conditions are skipped, which leaves the question visible
	// once its dependencies are answered.
	if cond, ok := parseCondition(q.ShowCondition); q.ShowCondition != "" && ok {
		ids := q.DependsOn
		if len(ids) == 0 {
			// A condition with no explicit dependencies ranges over the
			// whole availability question set.
			ids = AvailabilityIDs(questions)
		}
		if !cond.eval(YesCount(answers, ids)) {
			return StateHidden
		}
	}

	if answers.Answered(q.ID) {
		return StateAnswered
	}
	return StateVisible
}

// AvailabilityIDs returns the ids of all yes/no questions, in form order.
func AvailabilityIDs(questions []model.Question) []string {
	var ids []string
	for _, q := range questions {
		if q.IsYesNo() {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// YesCount counts the ids answered "Yes", case-insensitively.
func YesCount(answers model.AnswerSet, ids []string) int {
	count := 0
	for _, id := range ids {
		if strings.EqualFold(answers[id], "Yes") {
			count++
		}
	}
	return count
}

// RequiredYes is the minimum number of available dates before a written
// justification is demanded: 3 when the month has five or more service
// dates, 2 otherwise.
func RequiredYes(dateCount int) int {
	if dateCount >= 5 {
		return 3
	}
	return 2
}

// BuildForm splices one synthesized yes/no question per service day into the
// schema question list, right before the first conditional or free-text
// question, so reason-style questions can range over them. Labels repeated in
// the dates table keep their first occurrence only.
func BuildForm(questions []model.Question, days []model.ServiceDate) []model.Question {
	dateQs := DateQuestions(days)

	out := make([]model.Question, 0, len(questions)+len(dateQs))
	inserted := false
	for _, q := range questions {
		if !inserted && (q.ShowCondition != "" || q.Type == model.TypeText) {
			out = append(out, dateQs...)
			inserted = true
		}
		out = append(out, q)
	}
	if !inserted {
		out = append(out, dateQs...)
	}
	return out
}

// DateQuestions turns service-day rows into yes/no availability questions,
// keyed by label, deduplicated by first occurrence.
func DateQuestions(days []model.ServiceDate) []model.Question {
	var qs []model.Question
	seen := make(map[string]bool)
	for _, d := range days {
		if seen[d.Label] {
			continue
		}
		seen[d.Label] = true
		qs = append(qs, model.Question{
			ID:            d.Label,
			Text:          fmt.Sprintf("Are you available on %s?", d.Label),
			Type:          model.TypeRadio,
			OptionsSource: model.OptionsYesNo,
			ReportLabel:   d.Label,
		})
	}
	return qs
}

// DateLabels returns the deduplicated labels of the given service days, in
// first-occurrence order.
func DateLabels(days []model.ServiceDate) []string {
	var labels []string
	seen := make(map[string]bool)
	for _, d := range days {
		if !seen[d.Label] {
			seen[d.Label] = true
			labels = append(labels, d.Label)
		}
	}
	return labels
}
