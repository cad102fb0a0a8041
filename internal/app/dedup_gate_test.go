package app

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"rent_reminder_service/internal/domain/notification"
)

func TestDedupGateShouldEmit(t *testing.T) {
	gate := NewDedupGate(time.UTC)
	recipient := uuid.New()
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	candidate := notification.Intent{
		RecipientProfileID: recipient,
		Kind:               notification.KindOverdue,
		Title:              notification.TitleOverdue,
	}
	record := func(mut func(r *notification.Record)) *notification.Record {
		r := &notification.Record{
			RecipientProfileID: recipient,
			Kind:               notification.KindOverdue,
			Title:              notification.TitleOverdue,
			CreatedAt:          time.Date(2026, 1, 10, 0, 30, 0, 0, time.UTC),
		}
		if mut != nil {
			mut(r)
		}
		return r
	}

	tests := []struct {
		name     string
		existing []*notification.Record
		want     bool
	}{
		{name: "nothing recorded", want: true},
		{name: "same day match", existing: []*notification.Record{record(nil)}, want: false},
		{name: "exactly midnight counts as today", existing: []*notification.Record{record(func(r *notification.Record) {
			r.CreatedAt = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
		})}, want: false},
		{name: "yesterday never suppresses", existing: []*notification.Record{record(func(r *notification.Record) {
			r.CreatedAt = time.Date(2026, 1, 9, 23, 59, 59, 0, time.UTC)
		})}, want: true},
		{name: "other recipient", existing: []*notification.Record{record(func(r *notification.Record) {
			r.RecipientProfileID = uuid.New()
		})}, want: true},
		{name: "other kind", existing: []*notification.Record{record(func(r *notification.Record) {
			r.Kind = notification.KindDue
		})}, want: true},
		{name: "other title", existing: []*notification.Record{record(func(r *notification.Record) {
			r.Title = notification.TitleDuePlain
		})}, want: true},
		{name: "nil entries are ignored", existing: []*notification.Record{nil}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.ShouldEmit(candidate, tt.existing, now))
		})
	}
}

func TestDedupGateIsIdempotent(t *testing.T) {
	gate := NewDedupGate(time.UTC)
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	candidate := notification.Intent{
		RecipientProfileID: uuid.New(),
		Kind:               notification.KindDue,
		Title:              notification.TitleDue,
	}

	var log []*notification.Record
	assert.True(t, gate.ShouldEmit(candidate, log, now))

	rec := notification.NewRecord(candidate, gate.StartOfDay(now))
	rec.CreatedAt = now
	log = append(log, rec)

	assert.False(t, gate.ShouldEmit(candidate, log, now))
	assert.False(t, gate.ShouldEmit(candidate, log, now.Add(time.Hour)))
	assert.True(t, gate.ShouldEmit(candidate, log, now.AddDate(0, 0, 1)))
}

func TestDedupGateKindsAreIndependent(t *testing.T) {
	gate := NewDedupGate(time.UTC)
	recipient := uuid.New()
	now := time.Date(2026, 1, 17, 8, 0, 0, 0, time.UTC)
	advance := notification.Intent{RecipientProfileID: recipient, Kind: notification.KindAdvance, Title: notification.TitleAdvance}
	due := notification.Intent{RecipientProfileID: recipient, Kind: notification.KindDue, Title: notification.TitleDue}

	rec := notification.NewRecord(advance, gate.StartOfDay(now))
	rec.CreatedAt = now

	assert.False(t, gate.ShouldEmit(advance, []*notification.Record{rec}, now))
	assert.True(t, gate.ShouldEmit(due, []*notification.Record{rec}, now))
}

func TestDedupGateUsesItsLocation(t *testing.T) {
	loc := time.FixedZone("WAT", 60*60)
	gate := NewDedupGate(loc)
	// 23:30 UTC on Jan 9 is 00:30 on Jan 10 in WAT.
	now := time.Date(2026, 1, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 1, 10, 0, 0, 0, 0, loc), gate.StartOfDay(now))
}
