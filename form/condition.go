package form

import (
	"strconv"
	"strings"
)

// A show condition compares the respondent's "Yes" count against a literal:
//
//	yes_count<2  yes_count<=1  yes_count>0  yes_count>=3  yes_count==2
//
// Legacy sheets contain free-text garbage in this column. Those rows have
// always rendered as "show once the dependencies are answered", equivalent
// to yes_count>=1 over answered dependencies, so parse failures report
// ok=false and the resolver skips the condition instead of erroring. That
// fallback is load-bearing behavior, not an accident.
type condition struct {
	op string
	n  int
}

func parseCondition(s string) (cond condition, ok bool) {
	s = strings.ReplaceAll(s, " ", "")
	rest, found := strings.CutPrefix(s, "yes_count")
	if !found {
		return condition{}, false
	}

	for _, op := range []string{"<=", ">=", "==", "<", ">"} {
		if lit, found := strings.CutPrefix(rest, op); found {
			n, err := strconv.Atoi(lit)
			if err != nil {
				return condition{}, false
			}
			return condition{op: op, n: n}, true
		}
	}
	return condition{}, false
}

func (c condition) eval(yesCount int) bool {
	switch c.op {
	case "<":
		return yesCount < c.n
	case "<=":
		return yesCount <= c.n
	case ">":
		return yesCount > c.n
	case ">=":
		return yesCount >= c.n
	case "==":
		return yesCount == c.n
	}
	return false
}
