package notification

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gymgo/gymgo/pkg/email"
	"github.com/gymgo/gymgo/svc/quota"
)

// Service enforces plan quotas around outbound messaging. Delivery happens
// between the check and the consume, so a provider failure never burns quota;
// the inverse race (delivered but consume refused) is accepted and logged.
type Service struct {
	quota    *quota.Engine
	email    email.EmailSender
	whatsapp WhatsAppSender
	log      *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger overrides the default logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService creates a notification service. Panics on nil collaborators,
// consistent with the rest of the service constructors.
func NewService(engine *quota.Engine, sender email.EmailSender, wa WhatsAppSender, opts ...Option) *Service {
	if engine == nil {
		panic("notification: quota engine is required")
	}
	if sender == nil {
		panic("notification: email sender is required")
	}
	if wa == nil {
		panic("notification: whatsapp sender is required")
	}
	s := &Service{quota: engine, email: sender, whatsapp: wa, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendWhatsApp delivers one WhatsApp message for the organization. The plan
// must include the WhatsApp feature and have monthly quota remaining.
func (s *Service) SendWhatsApp(ctx context.Context, orgID uuid.UUID, msg WhatsAppMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if feat := s.quota.CheckFeatureAccess(ctx, orgID, quota.FeatureWhatsApp); !feat.Allowed {
		return &FeatureError{Message: feat.Message}
	}
	if check := s.quota.CheckWhatsAppLimit(ctx, orgID); !check.Allowed {
		return quota.NewLimitError(check)
	}

	if err := s.whatsapp.SendMessage(ctx, msg); err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}

	if res := s.quota.ConsumeWhatsAppMessage(ctx, orgID); !res.Success {
		s.log.WarnContext(ctx, "whatsapp delivered but consumption was refused",
			slog.String("organization_id", orgID.String()))
	}
	return nil
}

// SendEmail delivers one transactional email for the organization within its
// monthly email quota.
func (s *Service) SendEmail(ctx context.Context, orgID uuid.UUID, params email.SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	if check := s.quota.CheckEmailLimit(ctx, orgID); !check.Allowed {
		return quota.NewLimitError(check)
	}

	if err := s.email.SendEmail(ctx, params); err != nil {
		return errors.Join(ErrDeliveryFailed, err)
	}

	if res := s.quota.ConsumeEmail(ctx, orgID); !res.Success {
		s.log.WarnContext(ctx, "email delivered but consumption was refused",
			slog.String("organization_id", orgID.String()))
	}
	return nil
}
