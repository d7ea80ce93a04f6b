package notifier

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/announcement-relay/pkg/errors"
	"github.com/yanqian/announcement-relay/pkg/util"
)

// Service fans a message out to every configured recipient.
type Service interface {
	Notify(ctx context.Context, body string) (Report, error)
}

// Sender delivers one message and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, recipient, body string) (string, error)
}

type service struct {
	cfg    Config
	sender Sender
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewService is a wire provider for the notifier domain.
func NewService(cfg Config, sender Sender, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		sender: sender,
		logger: logger.With("component", "notifier.service"),
		sleep:  util.Sleep,
	}
}

// Notify sends sequentially in list order. A failed recipient is recorded
// and the remaining recipients are still attempted. Once started, the
// fan-out ignores cancellation of ctx so every recipient gets one attempt.
func (s *service) Notify(ctx context.Context, body string) (Report, error) {
	if strings.TrimSpace(body) == "" {
		return Report{}, apperrors.Wrap(apperrors.CodeInvalidInput, "message body cannot be empty", nil)
	}
	if len(s.cfg.Recipients) == 0 {
		return Report{}, apperrors.Wrap(apperrors.CodeNotify, "no recipients configured", nil)
	}
	ctx = context.WithoutCancel(ctx)

	report := Report{Deliveries: make([]Delivery, 0, len(s.cfg.Recipients))}
	for i, recipient := range s.cfg.Recipients {
		if i > 0 {
			if err := s.sleep(ctx, s.cfg.Delay); err != nil {
				s.logger.Warn("pause between sends cut short", "recipient", recipient, "error", err)
			}
		}

		sid, err := s.sender.Send(ctx, recipient, body)
		if err != nil {
			s.logger.Warn("send failed", "recipient", recipient, "error", err)
			report.Deliveries = append(report.Deliveries, Delivery{Recipient: recipient, Status: StatusFailed, Error: err.Error()})
			report.Failed++
			continue
		}
		s.logger.Info("message sent", "recipient", recipient, "sid", sid)
		report.Deliveries = append(report.Deliveries, Delivery{Recipient: recipient, Status: StatusSent, SID: sid})
		report.Sent++
	}

	s.logger.Info("fan-out finished", "sent", report.Sent, "failed", report.Failed, "recipients", len(s.cfg.Recipients))
	return report, nil
}
