package form

import (
	"fmt"
	"sort"
	"strings"

	"github.com/venique/rooster/model"
)

// MinReasonLen is the minimum trimmed length of the justification text.
const MinReasonLen = 5

// ValidationError collects every per-field problem in one pass so the
// respondent can fix the whole form at once.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("invalid submission:")
	for _, f := range fields {
		fmt.Fprintf(&b, " %s: %s;", f, v[f])
	}
	return strings.TrimSuffix(b.String(), ";")
}

// Submission is one respondent's composed answer, ready for validation and
// record assembly.
type Submission struct {
	Director string          `json:"director"`
	Person   string          `json:"person"`
	Reason   string          `json:"reason"`
	Answers  model.AnswerSet `json:"answers"`
}

// Validate checks a submission against the month's service days. A nil
// return means the submission is acceptable.
func Validate(days []model.ServiceDate, sub Submission) ValidationError {
	problems := ValidationError{}

	if strings.TrimSpace(sub.Director) == "" {
		problems["Director"] = "please select a director"
	}
	if strings.TrimSpace(sub.Person) == "" {
		problems["Serving Girl"] = "please select your name"
	}

	labels := DateLabels(days)
	for _, label := range labels {
		answer := sub.Answers[label]
		if !strings.EqualFold(answer, "Yes") && !strings.EqualFold(answer, "No") {
			problems[label] = "please answer Yes or No"
		}
	}

	required := RequiredYes(len(labels))
	if YesCount(sub.Answers, labels) < required {
		if len(strings.TrimSpace(sub.Reason)) < MinReasonLen {
			problems["Reason"] = fmt.Sprintf(
				"a reason of at least %d characters is required when you are available on fewer than %d dates",
				MinReasonLen, required)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}
