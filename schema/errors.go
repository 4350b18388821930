package schema

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Error reports every problem found in one input table at once, so a
// spreadsheet maintainer can fix the whole file in a single pass.
type Error struct {
	Table    string
	problems *multierror.Error
}

func newError(table string) *Error {
	return &Error{Table: table}
}

func (e *Error) addf(format string, args ...any) {
	e.problems = multierror.Append(e.problems, fmt.Errorf(format, args...))
}

func (e *Error) orNil() error {
	if e.problems.ErrorOrNil() == nil {
		return nil
	}
	return e
}

func (e *Error) Error() string {
	return fmt.Sprintf("table %q: %s", e.Table, e.problems.Error())
}

// Problems returns the individual violation messages.
func (e *Error) Problems() []string {
	msgs := make([]string, len(e.problems.Errors))
	for i, err := range e.problems.Errors {
		msgs[i] = err.Error()
	}
	return msgs
}

func (e *Error) Unwrap() error {
	return e.problems.ErrorOrNil()
}
