package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"rent_reminder_service/internal/app"
)

type fakeRunner struct {
	smartCalls    int
	dueTodayCalls int
	err           error
}

func (f *fakeRunner) SendSmartReminders(ctx context.Context, req app.RunRequest) (app.Summary, error) {
	f.smartCalls++
	if _, ok := ctx.Deadline(); !ok {
		return app.Summary{}, errors.New("job context has no deadline")
	}
	return app.Summary{NotificationsSent: 2}, f.err
}

func (f *fakeRunner) SendDueTodayReminders(ctx context.Context) (app.Summary, error) {
	f.dueTodayCalls++
	return app.Summary{}, f.err
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := NewReminderScheduler(&fakeRunner{}, quietLogger(), time.UTC, "not a spec", "", time.Minute)
	assert.Error(t, s.Start())
}

func TestStartRejectsInvalidDueTodaySpec(t *testing.T) {
	s := NewReminderScheduler(&fakeRunner{}, quietLogger(), time.UTC, "0 8 * * *", "61 * * * *", time.Minute)
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s := NewReminderScheduler(&fakeRunner{}, quietLogger(), time.UTC, "0 8 * * *", "0 9 * * *", time.Minute)
	assert.NoError(t, s.Start())
	assert.Len(t, s.cronEngine.Entries(), 2)
	s.Stop()
}

func TestJobsCallRunner(t *testing.T) {
	runner := &fakeRunner{}
	s := NewReminderScheduler(runner, quietLogger(), time.UTC, "0 8 * * *", "", time.Minute)

	s.runSmartReminders()
	s.runDueTodayReminders()
	assert.Equal(t, 1, runner.smartCalls)
	assert.Equal(t, 1, runner.dueTodayCalls)

	runner.err = errors.New("store down")
	s.runSmartReminders() // logged, not panicking
	assert.Equal(t, 2, runner.smartCalls)
}
