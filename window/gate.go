// Package window computes the active submission period: which month is being
// collected, and whether the form is not yet open, open, or closed.
package window

import (
	"fmt"
	"time"

	"github.com/venique/rooster/model"
)

type State string

const (
	// StateNotYetOpen means no service days exist yet for the target month.
	StateNotYetOpen State = "not_yet_open"
	StateOpen       State = "open"
	StateClosed     State = "closed"
)

// ConfigError reports unusable timezone or deadline configuration. The gate
// fails open on it: collection keeps working with enforcement off and a
// visible warning, because a missing zone database entry should not lock the
// whole roster out of the form.
type ConfigError struct {
	Zone string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("unusable timezone %q: %v", e.Zone, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

type Status struct {
	State       State         `json:"state"`
	TargetMonth string        `json:"targetMonth"`
	Deadline    time.Time     `json:"deadline,omitempty"`
	Remaining   time.Duration `json:"-"`
	// RemainingMinutes is the display value, floored.
	RemainingMinutes int       `json:"remainingMinutes,omitempty"`
	NextOpen         time.Time `json:"nextOpen,omitempty"`
	Warning          string    `json:"warning,omitempty"`
}

// TargetMonth is the first day of the month after the given local date,
// formatted YYYY-MM. Collection always runs for next month.
func TargetMonth(local time.Time) string {
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, local.Location())
	return first.AddDate(0, 1, 0).Format("2006-01")
}

// Evaluate runs the gate against the loaded tables at the given instant.
// Callers must re-run it at submit time, not just at render time: a session
// opened before the deadline does not get to submit after it.
func Evaluate(s model.Schema, now time.Time, defaultZone string) Status {
	loc, cfgErr := resolveZone(s, defaultZone)
	if cfgErr != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	month := TargetMonth(local)

	status := Status{TargetMonth: month}
	if cfgErr != nil {
		status.Warning = cfgErr.Error() + "; deadline enforcement is off"
	}

	if len(s.ServiceDays(month)) == 0 {
		status.State = StateNotYetOpen
		return status
	}

	if cfgErr != nil {
		status.State = StateOpen
		return status
	}

	deadline, ok := s.DeadlineFor(month)
	if !ok {
		// No deadline row means the month was never opened for collection.
		status.State = StateClosed
		status.NextOpen = nextOpen(month, loc)
		return status
	}

	rowLoc, err := time.LoadLocation(deadline.Timezone)
	if err != nil {
		status.State = StateOpen
		status.Warning = (&ConfigError{Zone: deadline.Timezone, Err: err}).Error() + "; deadline enforcement is off"
		return status
	}

	// The table stores a naive wall-clock time; anchor it to the row's zone.
	at := time.Date(
		deadline.Local.Year(), deadline.Local.Month(), deadline.Local.Day(),
		deadline.Local.Hour(), deadline.Local.Minute(), 0, 0, rowLoc)
	status.Deadline = at

	// The boundary is inclusive: hitting the deadline exactly is late.
	if !now.Before(at) {
		status.State = StateClosed
		status.NextOpen = nextOpen(month, loc)
		return status
	}

	status.State = StateOpen
	status.Remaining = at.Sub(now)
	status.RemainingMinutes = int(status.Remaining / time.Minute)
	return status
}

// resolveZone picks the zone the form operates in: the first deadline row's
// zone, else the configured fallback.
func resolveZone(s model.Schema, defaultZone string) (*time.Location, *ConfigError) {
	zone := defaultZone
	if len(s.Deadlines) > 0 && s.Deadlines[0].Timezone != "" {
		zone = s.Deadlines[0].Timezone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, &ConfigError{Zone: zone, Err: err}
	}
	return loc, nil
}

func nextOpen(month string, loc *time.Location) time.Time {
	first, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return time.Time{}
	}
	return first.AddDate(0, 1, 0)
}
