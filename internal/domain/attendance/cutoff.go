package attendance

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultCutoffHour = 9
	DateLayout        = "2006-01-02"
)

// Policy decides which day an attendance change applies to. Before the cutoff
// a change applies to today; from the cutoff on, today is locked and changes
// apply to tomorrow.
type Policy struct {
	Cutoff   time.Duration
	Location *time.Location
}

type Window struct {
	Today        time.Time
	Tomorrow     time.Time
	BeforeCutoff bool
	Target       time.Time
}

func NewPolicy(cutoffHour int, location *time.Location) Policy {
	if location == nil {
		location = time.Local
	}
	return Policy{
		Cutoff:   time.Duration(cutoffHour) * time.Hour,
		Location: location,
	}
}

func DefaultPolicy(location *time.Location) Policy {
	return NewPolicy(DefaultCutoffHour, location)
}

// Resolve is evaluated on every call; there is no grace period around the
// cutoff. Exactly 09:00:00 counts as after.
func (p Policy) Resolve(now time.Time) Window {
	local := now.In(p.location())
	hour, minute, second := local.Clock()
	sinceMidnight := time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second +
		time.Duration(local.Nanosecond())

	today := civilDate(local)
	tomorrow := today.AddDate(0, 0, 1)
	before := sinceMidnight < p.Cutoff

	target := tomorrow
	if before {
		target = today
	}

	return Window{
		Today:        today,
		Tomorrow:     tomorrow,
		BeforeCutoff: before,
		Target:       target,
	}
}

// Today is the mess-local calendar day containing now.
func (p Policy) Today(now time.Time) time.Time {
	return civilDate(now.In(p.location()))
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// civilDate keeps the wall-clock date and drops everything else; calendar
// days are carried as UTC midnights so they compare and format stably.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return parsed, nil
}

func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}
