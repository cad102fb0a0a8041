package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainDelivery "rent_reminder_service/internal/domain/delivery"
	"rent_reminder_service/internal/domain/notification"
)

type recordingSender struct {
	got []domainDelivery.Message
	err error
}

func (r *recordingSender) Send(_ context.Context, msg domainDelivery.Message) error {
	r.got = append(r.got, msg)
	return r.err
}

func TestLogSender(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := NewLogSender(logrus.NewEntry(logger))

	err := s.Send(context.Background(), domainDelivery.Message{
		TenantName: "Rosa Daniella",
		Kind:       notification.KindOverdue,
		Title:      notification.TitleOverdue,
		Body:       "Your rent was due on 2026-01-01. Please pay immediately.",
	})
	require.NoError(t, err)
	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "overdue", entry.Data["kind"])
	assert.Contains(t, entry.Message, "Please pay immediately")
}

func TestMultiSender(t *testing.T) {
	boom := errors.New("telegram down")
	ok := &recordingSender{}
	failing := &recordingSender{err: boom}
	m := MultiSender{ok, nil, failing}

	err := m.Send(context.Background(), domainDelivery.Message{Title: "Rent Due Today"})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, ok.got, 1)
	assert.Len(t, failing.got, 1)

	assert.NoError(t, MultiSender{ok}.Send(context.Background(), domainDelivery.Message{}))
}
