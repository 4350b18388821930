package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venique/rooster/model"
)

func yesNo(id string, deps ...string) model.Question {
	return model.Question{
		ID:            id,
		Text:          id,
		Type:          model.TypeRadio,
		OptionsSource: model.OptionsYesNo,
		DependsOn:     deps,
	}
}

func TestRequiredYes_DynamicThreshold(t *testing.T) {
	assert.Equal(t, 2, RequiredYes(0))
	assert.Equal(t, 2, RequiredYes(4))
	assert.Equal(t, 3, RequiredYes(5))
	assert.Equal(t, 3, RequiredYes(9))
}

func TestYesCount_CaseInsensitive(t *testing.T) {
	answers := model.AnswerSet{"a": "yes", "b": "YES", "c": "No", "d": ""}
	assert.Equal(t, 2, YesCount(answers, []string{"a", "b", "c", "d"}))
}

func TestResolve_UnansweredDependenciesHide(t *testing.T) {
	questions := []model.Question{
		yesNo("Q1"),
		yesNo("Q2", "Q1"),
	}

	views := Resolve(questions, model.AnswerSet{})
	assert.Equal(t, StateVisible, views[0].State)
	assert.Equal(t, StateHidden, views[1].State)

	views = Resolve(questions, model.AnswerSet{"Q1": "No"})
	assert.Equal(t, StateAnswered, views[0].State)
	assert.Equal(t, StateVisible, views[1].State)

	// A stale answer does not resurrect a question whose dependency was
	// cleared again.
	views = Resolve(questions, model.AnswerSet{"Q2": "Yes"})
	assert.Equal(t, StateHidden, views[1].State)
}

func TestResolve_YesCountCondition(t *testing.T) {
	questions := []model.Question{
		yesNo("Q3"), yesNo("Q4"), yesNo("Q5"),
		{
			ID: "Q7", Text: "Why so few?", Type: model.TypeText,
			DependsOn:     []string{"Q3", "Q4", "Q5"},
			ShowCondition: "yes_count<2",
		},
	}

	views := Resolve(questions, model.AnswerSet{"Q3": "Yes", "Q4": "No", "Q5": "No"})
	assert.Equal(t, StateVisible, views[3].State, "1 < 2 should show the reason question")

	views = Resolve(questions, model.AnswerSet{"Q3": "Yes", "Q4": "Yes", "Q5": "No"})
	assert.Equal(t, StateHidden, views[3].State, "2 < 2 fails, reason question hidden")
}

func TestResolve_EmptyDependsFallsBackToAllAvailabilityQuestions(t *testing.T) {
	questions := []model.Question{
		yesNo("Q3"), yesNo("Q4"),
		{ID: "Q7", Text: "Why?", Type: model.TypeText, ShowCondition: "yes_count<2"},
	}

	views := Resolve(questions, model.AnswerSet{"Q3": "Yes", "Q4": "Yes"})
	assert.Equal(t, StateHidden, views[2].State)

	views = Resolve(questions, model.AnswerSet{"Q3": "Yes", "Q4": "No"})
	assert.Equal(t, StateVisible, views[2].State)
}

// Unparseable conditions are a documented fallback, not an error: the
// question shows as soon as its dependencies are answered, whatever was
// answered.
func TestResolve_UnparseableConditionFallsBackToVisible(t *testing.T) {
	questions := []model.Question{
		yesNo("Q1"),
		{ID: "Q2", Text: "Why?", Type: model.TypeText, DependsOn: []string{"Q1"}, ShowCondition: "foobar"},
	}

	views := Resolve(questions, model.AnswerSet{})
	assert.Equal(t, StateHidden, views[1].State)

	views = Resolve(questions, model.AnswerSet{"Q1": "Yes"})
	assert.Equal(t, StateVisible, views[1].State)

	views = Resolve(questions, model.AnswerSet{"Q1": "No"})
	assert.Equal(t, StateVisible, views[1].State)
}

func TestParseCondition_Grammar(t *testing.T) {
	for _, tc := range []struct {
		in string
		op string
		n  int
	}{
		{"yes_count<2", "<", 2},
		{"yes_count<=1", "<=", 1},
		{"yes_count>0", ">", 0},
		{"yes_count>=3", ">=", 3},
		{"yes_count==2", "==", 2},
		{"yes_count < 2", "<", 2},
	} {
		cond, ok := parseCondition(tc.in)
		require.True(t, ok, tc.in)
		assert.Equal(t, tc.op, cond.op, tc.in)
		assert.Equal(t, tc.n, cond.n, tc.in)
	}

	for _, in := range []string{"", "foobar", "yes_count", "yes_count<", "yes_count<x", "no_count<2"} {
		_, ok := parseCondition(in)
		assert.False(t, ok, in)
	}
}

func TestBuildForm_SplicesDateQuestionsBeforeConditionals(t *testing.T) {
	questions := []model.Question{
		{ID: "Q1", Text: "Director", Type: model.TypeDropdown, OptionsSource: model.OptionsNone},
		{ID: "Q2", Text: "Name", Type: model.TypeDropdown, OptionsSource: model.OptionsNone},
		{ID: "Q7", Text: "Why?", Type: model.TypeText, ShowCondition: "yes_count<3"},
	}
	days := []model.ServiceDate{
		{TargetMonth: "2026-09", Label: "Sun 6 Sep", IsServiceDay: true},
		{TargetMonth: "2026-09", Label: "Sun 13 Sep", IsServiceDay: true},
		{TargetMonth: "2026-09", Label: "Sun 6 Sep", IsServiceDay: true}, // duplicate label
	}

	built := BuildForm(questions, days)
	require.Len(t, built, 5)
	assert.Equal(t, "Q2", built[1].ID)
	assert.Equal(t, "Sun 6 Sep", built[2].ID)
	assert.Equal(t, "Sun 13 Sep", built[3].ID)
	assert.Equal(t, "Q7", built[4].ID)
	assert.True(t, built[2].IsYesNo())
}

func TestDateLabels_FirstOccurrenceOrder(t *testing.T) {
	days := []model.ServiceDate{
		{Label: "B"}, {Label: "A"}, {Label: "B"}, {Label: "C"},
	}
	assert.Equal(t, []string{"B", "A", "C"}, DateLabels(days))
}
