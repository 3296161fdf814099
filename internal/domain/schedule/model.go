package schedule

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Day constants. The planner only ever shows two columns.
const (
	DayToday    = "today"
	DayTomorrow = "tomorrow"
)

// ValidDays contains all valid day values, in display order.
var ValidDays = []string{DayToday, DayTomorrow}

// Domain errors
var (
	ErrInvalidDay = errors.New("day must be today or tomorrow")
	ErrEmptyStart = errors.New("start time cannot be empty")
	ErrEmptyTask  = errors.New("task cannot be empty")
)

// Entry represents one timetable row owned by a squad.
// Start is stored verbatim; anything non-empty is accepted, so a squad can
// write "09:00" or "after lunch" alike.
type Entry struct {
	ID        string
	Seq       int64 // storage-assigned creation order, tie-break for sorting
	Day       string
	Squad     string
	Start     string
	Task      string
	Comment   string // admin-written, empty by default
	UpdatedAt time.Time
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if !IsValidDay(e.Day) {
		return ErrInvalidDay
	}
	if strings.TrimSpace(e.Start) == "" {
		return ErrEmptyStart
	}
	if strings.TrimSpace(e.Task) == "" {
		return ErrEmptyTask
	}
	return nil
}

// Patch carries optional field updates for an edit. A nil field keeps the
// stored value.
type Patch struct {
	Start *string
	Task  *string
}

// IsValidDay reports whether day is one of the two planner columns.
func IsValidDay(day string) bool {
	return day == DayToday || day == DayTomorrow
}

// SortEntries orders entries canonically: start ascending, then creation
// order. Display position and index-based addressing both use this order.
// PRE: entries may be in any order
// POST: entries sorted in place by (Start asc, Seq asc)
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Start != entries[j].Start {
			return entries[i].Start < entries[j].Start
		}
		return entries[i].Seq < entries[j].Seq
	})
}
