package delivery

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	domainDelivery "rent_reminder_service/internal/domain/delivery"
)

// LogSender writes reminders to the log.
type LogSender struct {
	logger *logrus.Entry
}

func NewLogSender(logger *logrus.Entry) *LogSender {
	return &LogSender{logger: logger.WithField("component", "log_sender")}
}

func (s *LogSender) Send(_ context.Context, msg domainDelivery.Message) error {
	s.logger.WithFields(logrus.Fields{
		"tenant_id": msg.TenantID,
		"tenant":    msg.TenantName,
		"kind":      msg.Kind.Label(),
		"title":     msg.Title,
	}).Infof("Sending rent reminder: %s", msg.Body)
	return nil
}

// MultiSender fans a message out to every sender and joins their errors.
type MultiSender []domainDelivery.Sender

func (m MultiSender) Send(ctx context.Context, msg domainDelivery.Message) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
