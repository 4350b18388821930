package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venique/rooster/model"
)

func fiveDays() []model.ServiceDate {
	return []model.ServiceDate{
		{Label: "d1", IsServiceDay: true},
		{Label: "d2", IsServiceDay: true},
		{Label: "d3", IsServiceDay: true},
		{Label: "d4", IsServiceDay: true},
		{Label: "d5", IsServiceDay: true},
	}
}

func answered(yes int) model.AnswerSet {
	answers := model.AnswerSet{}
	for i, label := range []string{"d1", "d2", "d3", "d4", "d5"} {
		if i < yes {
			answers[label] = "Yes"
		} else {
			answers[label] = "No"
		}
	}
	return answers
}

func TestValidate_ReasonRequiredBelowThreshold(t *testing.T) {
	sub := Submission{Director: "Alice", Person: "Bea", Answers: answered(2)}

	problems := Validate(fiveDays(), sub)
	require.NotNil(t, problems)
	assert.Contains(t, problems, "Reason")
	assert.Contains(t, problems["Reason"], "5")

	sub.Reason = "away on holiday"
	assert.Nil(t, Validate(fiveDays(), sub))
}

func TestValidate_ReasonOptionalAtThreshold(t *testing.T) {
	sub := Submission{Director: "Alice", Person: "Bea", Answers: answered(3)}
	assert.Nil(t, Validate(fiveDays(), sub))
}

func TestValidate_ShortReasonRejected(t *testing.T) {
	sub := Submission{Director: "Alice", Person: "Bea", Reason: "  ab  ", Answers: answered(0)}

	problems := Validate(fiveDays(), sub)
	require.NotNil(t, problems)
	assert.Contains(t, problems, "Reason")
}

func TestValidate_CollectsEveryProblemAtOnce(t *testing.T) {
	sub := Submission{Answers: model.AnswerSet{"d1": "Yes", "d2": "maybe"}}

	problems := Validate(fiveDays(), sub)
	require.NotNil(t, problems)
	assert.Contains(t, problems, "Director")
	assert.Contains(t, problems, "Serving Girl")
	assert.Contains(t, problems, "d2", "non yes/no answer")
	assert.Contains(t, problems, "d3", "missing answer")
	assert.Contains(t, problems, "Reason")
}

func TestValidate_AnswerCaseInsensitive(t *testing.T) {
	answers := model.AnswerSet{"d1": "yes", "d2": "YES", "d3": "yEs", "d4": "no", "d5": "NO"}
	sub := Submission{Director: "Alice", Person: "Bea", Answers: answers}
	assert.Nil(t, Validate(fiveDays(), sub))
}
