// internal/app/dedup_gate.go
package app

import (
	"time"

	"rent_reminder_service/internal/domain/billing"
	"rent_reminder_service/internal/domain/notification"
)

// DedupGate enforces at most one record per (recipient, kind, title) per calendar day.
type DedupGate struct {
	loc *time.Location
}

func NewDedupGate(loc *time.Location) *DedupGate {
	if loc == nil {
		loc = time.Local
	}
	return &DedupGate{loc: loc}
}

// StartOfDay is the lower bound of the lookup window for now.
func (g *DedupGate) StartOfDay(now time.Time) time.Time {
	return billing.DateOf(now.In(g.loc), g.loc)
}

// ShouldEmit reports whether candidate may become a record. Only records created on
// the same calendar day as now, with matching recipient, kind and title, suppress it.
func (g *DedupGate) ShouldEmit(candidate notification.Intent, existing []*notification.Record, now time.Time) bool {
	from := g.StartOfDay(now)
	until := from.AddDate(0, 0, 1)
	for _, rec := range existing {
		if rec == nil {
			continue
		}
		if rec.RecipientProfileID != candidate.RecipientProfileID ||
			rec.Kind != candidate.Kind ||
			rec.Title != candidate.Title {
			continue
		}
		if rec.CreatedAt.Before(from) || !rec.CreatedAt.Before(until) {
			continue
		}
		return false
	}
	return true
}
