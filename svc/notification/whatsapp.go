package notification

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
)

// WhatsAppMessage is one outbound WhatsApp message.
type WhatsAppMessage struct {
	To   string `json:"to"`   // E.164 phone number
	Body string `json:"body"` // Message text
}

var phoneRegex = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// Validate checks the message before any provider call.
func (m WhatsAppMessage) Validate() error {
	if !phoneRegex.MatchString(m.To) {
		return fmt.Errorf("%w: To must be an E.164 phone number", ErrInvalidMessage)
	}
	if m.Body == "" {
		return fmt.Errorf("%w: Body is required", ErrInvalidMessage)
	}
	return nil
}

// WhatsAppSender delivers a single WhatsApp message.
type WhatsAppSender interface {
	SendMessage(ctx context.Context, msg WhatsAppMessage) error
}

// LogWhatsAppSender logs messages instead of delivering them. It is the
// development stand-in for a real provider integration.
type LogWhatsAppSender struct {
	log *slog.Logger
}

// NewLogWhatsAppSender creates a log-only sender.
func NewLogWhatsAppSender(log *slog.Logger) *LogWhatsAppSender {
	if log == nil {
		log = slog.Default()
	}
	return &LogWhatsAppSender{log: log}
}

func (s *LogWhatsAppSender) SendMessage(ctx context.Context, msg WhatsAppMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "whatsapp message (dev sender, not delivered)",
		slog.String("to", msg.To),
		slog.Int("body_len", len(msg.Body)),
	)
	return nil
}
