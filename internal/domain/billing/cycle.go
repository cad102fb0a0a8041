// Package billing projects rent cycle boundaries from a lease and decides which
// reminder, if any, a given day calls for.
package billing

import (
	"time"

	"rent_reminder_service/internal/domain/notification"
)

const (
	DefaultCycleDays         = 30
	DefaultAdvanceNoticeDays = 14
	// DefaultOverdueWindowDays bounds overdue alerts to the days strictly between
	// a boundary and boundary+window. It is elapsed time only, not payment status.
	DefaultOverdueWindowDays = 15
)

// Policy holds the scheduling knobs. The zero value is not usable, start from
// DefaultPolicy.
type Policy struct {
	DefaultCycleDays  int
	AdvanceNoticeDays int
	OverdueWindowDays int
}

func DefaultPolicy() Policy {
	return Policy{
		DefaultCycleDays:  DefaultCycleDays,
		AdvanceNoticeDays: DefaultAdvanceNoticeDays,
		OverdueWindowDays: DefaultOverdueWindowDays,
	}
}

// Boundary is a projected due date: leaseStart + Index*cycleDays.
type Boundary struct {
	Index    int
	DueDate  time.Time
	DiffDays int // DueDate - today in whole days, negative once passed
}

// Due is a boundary that today is actionable for.
type Due struct {
	Boundary
	Kind notification.Kind
}

// CycleDays resolves a tenant's cycle length, falling back to the policy default
// for missing or non-positive values.
func (p Policy) CycleDays(n int) int {
	if n > 0 {
		return n
	}
	if p.DefaultCycleDays > 0 {
		return p.DefaultCycleDays
	}
	return DefaultCycleDays
}

// ProjectBoundaries returns the boundary just passed (or today) and the next
// upcoming one. All arithmetic is on calendar days in today's location.
// A lease that starts after today has no boundaries.
func (p Policy) ProjectBoundaries(leaseStart time.Time, cycleDays int, today time.Time) []Boundary {
	cycleDays = p.CycleDays(cycleDays)
	loc := today.Location()
	day := DateOf(today, loc)
	start := DateOf(leaseStart, loc)

	daysSinceStart := DaysBetween(start, day)
	if daysSinceStart < 0 {
		return nil
	}
	cyclesPassed := daysSinceStart / cycleDays

	boundaries := make([]Boundary, 0, 2)
	for _, idx := range []int{cyclesPassed, cyclesPassed + 1} {
		if idx < 0 {
			continue
		}
		due := start.AddDate(0, 0, idx*cycleDays)
		boundaries = append(boundaries, Boundary{
			Index:    idx,
			DueDate:  due,
			DiffDays: DaysBetween(day, due),
		})
	}
	return boundaries
}

// Classify maps each projected boundary to a reminder kind. Boundaries are judged
// independently, so short cycles can produce two results on one day.
func (p Policy) Classify(leaseStart time.Time, cycleDays int, today time.Time) []Due {
	var dues []Due
	for _, b := range p.ProjectBoundaries(leaseStart, cycleDays, today) {
		kind, ok := p.kindFor(b.DiffDays)
		if !ok {
			continue
		}
		dues = append(dues, Due{Boundary: b, Kind: kind})
	}
	return dues
}

func (p Policy) kindFor(diffDays int) (notification.Kind, bool) {
	switch {
	case diffDays == p.AdvanceNoticeDays:
		return notification.KindAdvance, true
	case diffDays == 0:
		return notification.KindDue, true
	case diffDays < 0 && diffDays > -p.OverdueWindowDays:
		return notification.KindOverdue, true
	default:
		return "", false
	}
}

// DateOf strips the time of day, keeping t's calendar date but placing it in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween counts calendar days from a to b, ignoring DST-shortened days.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
