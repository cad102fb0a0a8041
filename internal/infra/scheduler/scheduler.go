package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"rent_reminder_service/internal/app"
)

// ReminderScheduler triggers reminder runs on cron specs.
type ReminderScheduler struct {
	cronEngine       *cron.Cron
	runner           app.ReminderRunner
	logger           *logrus.Entry
	cronSpecSmart    string
	cronSpecDueToday string // empty disables the job
	jobTimeout       time.Duration
}

func NewReminderScheduler(
	runner app.ReminderRunner,
	logger *logrus.Entry,
	location *time.Location,
	cronSpecSmart string, // e.g., "0 8 * * *" (8:00 AM daily)
	cronSpecDueToday string,
	jobTimeout time.Duration,
) *ReminderScheduler {
	if location == nil {
		location = time.Local
	}
	return &ReminderScheduler{
		cronEngine:       cron.New(cron.WithLocation(location)),
		runner:           runner,
		logger:           logger.WithField("component", "scheduler"),
		cronSpecSmart:    cronSpecSmart,
		cronSpecDueToday: cronSpecDueToday,
		jobTimeout:       jobTimeout,
	}
}

// Start registers the jobs and starts the cron engine.
func (s *ReminderScheduler) Start() error {
	s.logger.Info("Starting reminder scheduler")

	if _, err := s.cronEngine.AddFunc(s.cronSpecSmart, s.runSmartReminders); err != nil {
		return fmt.Errorf("could not add smart reminder cron job: %w", err)
	}

	if s.cronSpecDueToday != "" {
		if _, err := s.cronEngine.AddFunc(s.cronSpecDueToday, s.runDueTodayReminders); err != nil {
			return fmt.Errorf("could not add due-today reminder cron job: %w", err)
		}
	}

	s.cronEngine.Start()
	s.logger.WithFields(logrus.Fields{
		"smart_spec":     s.cronSpecSmart,
		"due_today_spec": s.cronSpecDueToday,
	}).Info("Reminder scheduler started")
	return nil
}

func (s *ReminderScheduler) runSmartReminders() {
	s.logger.Info("Cron job triggered for smart reminders")
	// The service applies its own run deadline; this bounds the whole job.
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	summary, err := s.runner.SendSmartReminders(ctx, app.RunRequest{})
	if err != nil {
		s.logger.WithError(err).Error("Smart reminder run failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"notifications_sent": summary.NotificationsSent,
		"partial":            summary.Partial,
	}).Info("Smart reminder run completed")
}

func (s *ReminderScheduler) runDueTodayReminders() {
	s.logger.Info("Cron job triggered for due-today reminders")
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	summary, err := s.runner.SendDueTodayReminders(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Due-today reminder run failed")
		return
	}
	s.logger.WithField("notifications_sent", summary.NotificationsSent).Info("Due-today reminder run completed")
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped")
}
