// internal/app/reminder_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"rent_reminder_service/internal/domain/billing"
	"rent_reminder_service/internal/domain/delivery"
	"rent_reminder_service/internal/domain/notification"
	"rent_reminder_service/internal/domain/payment"
	"rent_reminder_service/internal/domain/tenant"
	idb "rent_reminder_service/internal/infra/database"
)

const (
	defaultConcurrency   = 4
	defaultRunTimeout    = 5 * time.Minute
	defaultCurrencyLabel = "FCFA"
)

// ReminderRunner is what triggers (cron, HTTP) depend on.
type ReminderRunner interface {
	SendSmartReminders(ctx context.Context, req RunRequest) (Summary, error)
	SendDueTodayReminders(ctx context.Context) (Summary, error)
}

var _ ReminderRunner = (*ReminderService)(nil)

// RunRequest narrows a smart-reminder run.
type RunRequest struct {
	DryRun    bool        // classify and gate, but insert and deliver nothing
	TenantIDs []uuid.UUID // empty means every reminder target
}

// Summary is what a run reports back to its trigger.
type Summary struct {
	NotificationsSent int
	TenantsProcessed  int
	// Partial is set when the run deadline cut the run short. Tenants already
	// handled keep their records.
	Partial bool
}

// ReminderOptions configures a ReminderService.
type ReminderOptions struct {
	Policy                  billing.Policy
	Location                *time.Location
	CurrencyLabel           string
	Concurrency             int
	RunTimeout              time.Duration
	SuppressOverdueWhenPaid bool
}

// ReminderService runs reminder batches over active tenants.
type ReminderService struct {
	tenantRepo  tenant.Repository
	notifRepo   notification.Repository
	paymentRepo payment.Repository
	sender      delivery.Sender
	gate        *DedupGate
	opts        ReminderOptions
	logger      *logrus.Entry
	now         func() time.Time
}

func NewReminderService(
	tr tenant.Repository,
	nr notification.Repository,
	pr payment.Repository, // may be nil when overdue suppression is off
	sender delivery.Sender,
	opts ReminderOptions,
	logger *logrus.Entry,
) *ReminderService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = defaultRunTimeout
	}
	if opts.CurrencyLabel == "" {
		opts.CurrencyLabel = defaultCurrencyLabel
	}
	if opts.Policy == (billing.Policy{}) {
		opts.Policy = billing.DefaultPolicy()
	}
	return &ReminderService{
		tenantRepo:  tr,
		notifRepo:   nr,
		paymentRepo: pr,
		sender:      sender,
		gate:        NewDedupGate(opts.Location),
		opts:        opts,
		logger:      logger.WithField("component", "reminder_service"),
		now:         time.Now,
	}
}

// SendSmartReminders classifies every reminder target against today and stores
// the advance, due and overdue notifications the gate lets through.
func (s *ReminderService) SendSmartReminders(ctx context.Context, req RunRequest) (Summary, error) {
	now := s.now().In(s.opts.Location)
	today := s.gate.StartOfDay(now)
	log := s.logger.WithFields(logrus.Fields{
		"run":     "smart",
		"today":   today.Format("2006-01-02"),
		"dry_run": req.DryRun,
	})
	log.Info("Starting smart reminder run")

	return s.run(ctx, log, req.TenantIDs, func(ctx context.Context, t *tenant.Tenant) (int, error) {
		return s.remindTenant(ctx, log, t, now, today, req.DryRun)
	})
}

// SendDueTodayReminders sends the plain "rent is due today" reminder to every
// reminder target that occupies a unit, once per day.
func (s *ReminderService) SendDueTodayReminders(ctx context.Context) (Summary, error) {
	now := s.now().In(s.opts.Location)
	today := s.gate.StartOfDay(now)
	log := s.logger.WithFields(logrus.Fields{
		"run":   "due_today",
		"today": today.Format("2006-01-02"),
	})
	log.Info("Starting due-today reminder run")

	return s.run(ctx, log, nil, func(ctx context.Context, t *tenant.Tenant) (int, error) {
		if !t.HasUnit() {
			return 0, nil
		}
		rent := "N/A"
		if t.MonthlyRent.Valid && !t.MonthlyRent.Decimal.IsZero() {
			rent = t.MonthlyRent.Decimal.String()
		}
		intent := notification.Intent{
			TenantID:           t.ID,
			RecipientProfileID: t.ProfileID.UUID,
			Kind:               notification.KindDue,
			Title:              notification.TitleDuePlain,
			Message:            fmt.Sprintf("Your rent of %s %s is due today.", rent, s.opts.CurrencyLabel),
			TargetDate:         today,
		}
		sent, err := s.emit(ctx, log, t, intent, now, today, false)
		if err != nil || !sent {
			return 0, err
		}
		return 1, nil
	})
}

type tenantFunc func(ctx context.Context, t *tenant.Tenant) (int, error)

// run fans fn out over the reminder targets. A store error aborts the run;
// hitting the run deadline ends it early with a partial summary.
func (s *ReminderService) run(ctx context.Context, log *logrus.Entry, only []uuid.UUID, fn tenantFunc) (Summary, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.opts.RunTimeout)
	defer cancel()

	tenants, err := s.tenantRepo.ListReminderTargets(runCtx)
	if err != nil {
		log.WithError(err).Error("Failed to list reminder targets")
		return Summary{}, fmt.Errorf("failed to list reminder targets: %w", err)
	}
	tenants = filterTenants(tenants, only)
	if len(tenants) == 0 {
		log.Info("No reminder targets found")
		return Summary{}, nil
	}
	log.WithField("tenants", len(tenants)).Info("Loaded reminder targets")

	var sent, processed atomic.Int64
	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(s.opts.Concurrency)
	for _, t := range tenants {
		if !t.ProfileID.Valid {
			continue
		}
		if gctx.Err() != nil {
			break
		}
		t := t
		g.Go(func() error {
			n, err := fn(gctx, t)
			if err != nil {
				return fmt.Errorf("tenant %s: %w", t.ID, err)
			}
			sent.Add(int64(n))
			processed.Add(1)
			return nil
		})
	}
	err = g.Wait()

	summary := Summary{
		NotificationsSent: int(sent.Load()),
		TenantsProcessed:  int(processed.Load()),
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		summary.Partial = true
		log.WithFields(logrus.Fields{
			"notifications_sent": summary.NotificationsSent,
			"tenants_processed":  summary.TenantsProcessed,
		}).Warn("Reminder run hit its deadline, stopping with partial results")
		return summary, nil
	}
	if err == nil && runCtx.Err() != nil {
		// Cancelled by the caller before every tenant was scheduled.
		err = runCtx.Err()
	}
	if err != nil {
		log.WithError(err).Error("Reminder run aborted")
		return summary, err
	}
	log.WithFields(logrus.Fields{
		"notifications_sent": summary.NotificationsSent,
		"tenants_processed":  summary.TenantsProcessed,
	}).Info("Reminder run finished")
	return summary, nil
}

func (s *ReminderService) remindTenant(ctx context.Context, log *logrus.Entry, t *tenant.Tenant, now, today time.Time, dryRun bool) (int, error) {
	tlog := log.WithFields(logrus.Fields{"tenant_id": t.ID, "tenant": t.Name})
	if !t.LeaseStart.Valid {
		tlog.Warn("Tenant has no lease start, skipping")
		return 0, nil
	}

	cycleDays := s.opts.Policy.CycleDays(t.CycleDays())
	sent := 0
	for _, due := range s.opts.Policy.Classify(t.LeaseStart.Time, cycleDays, today) {
		if due.Kind == notification.KindOverdue && s.opts.SuppressOverdueWhenPaid && s.paymentRepo != nil {
			since := due.DueDate.AddDate(0, 0, -cycleDays)
			paid, err := s.paymentRepo.HasPaymentSince(ctx, t.ID, since)
			if err != nil {
				return sent, fmt.Errorf("failed to check payments: %w", err)
			}
			if paid {
				tlog.WithField("due_date", due.DueDate.Format("2006-01-02")).Debug("Payment found for cycle, overdue alert suppressed")
				continue
			}
		}

		intent := s.composeIntent(t, due)
		ok, err := s.emit(ctx, tlog, t, intent, now, today, dryRun)
		if err != nil {
			return sent, err
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

func (s *ReminderService) composeIntent(t *tenant.Tenant, due billing.Due) notification.Intent {
	rent := t.Rent().String()
	dueOn := due.DueDate.Format("2006-01-02")
	in := notification.Intent{
		TenantID:           t.ID,
		RecipientProfileID: t.ProfileID.UUID,
		Kind:               due.Kind,
		TargetDate:         due.DueDate,
	}
	switch due.Kind {
	case notification.KindAdvance:
		in.Title = notification.TitleAdvance
		in.Message = fmt.Sprintf("Your rent of %s %s will be due on %s.", rent, s.opts.CurrencyLabel, dueOn)
	case notification.KindDue:
		in.Title = notification.TitleDue
		in.Message = fmt.Sprintf("Your rent of %s %s is due today.", rent, s.opts.CurrencyLabel)
	case notification.KindOverdue:
		in.Title = notification.TitleOverdue
		in.Message = fmt.Sprintf("Your rent was due on %s. Please pay immediately.", dueOn)
	}
	return in
}

// emit runs the gate for one intent and persists it. A dedup key conflict on insert
// means a concurrent run got there first and counts as suppressed.
func (s *ReminderService) emit(ctx context.Context, log *logrus.Entry, t *tenant.Tenant, in notification.Intent, now, today time.Time, dryRun bool) (bool, error) {
	ilog := log.WithFields(logrus.Fields{"kind": in.Kind.Label(), "title": in.Title})

	existing, err := s.notifRepo.ListCreatedSince(ctx, in.RecipientProfileID, in.Kind, in.Title, today)
	if err != nil {
		return false, fmt.Errorf("failed to list today's notifications: %w", err)
	}
	if !s.gate.ShouldEmit(in, existing, now) {
		ilog.Debug("Notification already sent today, skipping")
		return false, nil
	}
	if dryRun {
		ilog.Info("Dry run: notification would be sent")
		return true, nil
	}

	rec := notification.NewRecord(in, today)
	if err := s.notifRepo.Create(ctx, rec); err != nil {
		if errors.Is(err, idb.ErrDuplicateNotification) {
			ilog.Info("Notification inserted concurrently by another run, skipping")
			return false, nil
		}
		return false, fmt.Errorf("failed to create notification: %w", err)
	}
	ilog.WithField("notification_id", rec.ID).Info("Notification created")

	if s.sender != nil {
		msg := delivery.Message{
			TenantID:       t.ID,
			TenantName:     t.Name,
			TelegramChatID: t.ChatID(),
			Kind:           in.Kind,
			Title:          in.Title,
			Body:           in.Message,
		}
		if err := s.sender.Send(ctx, msg); err != nil {
			ilog.WithError(err).Warn("Failed to deliver reminder, record is stored")
		}
	}
	return true, nil
}

func filterTenants(tenants []*tenant.Tenant, only []uuid.UUID) []*tenant.Tenant {
	if len(only) == 0 {
		return tenants
	}
	want := make(map[uuid.UUID]struct{}, len(only))
	for _, id := range only {
		want[id] = struct{}{}
	}
	filtered := make([]*tenant.Tenant, 0, len(only))
	for _, t := range tenants {
		if _, ok := want[t.ID]; ok {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
