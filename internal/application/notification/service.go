package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/barangay-cms/internal/domain"
	"github.com/barangay-cms/internal/infrastructure/smtp"
	"github.com/barangay-cms/internal/infrastructure/sns"
)

const defaultTimeout = 10 * time.Second

// Sender delivers one-time codes and complaint status updates. Each call is
// bounded by the configured timeout; failures wrap domain.ErrDeliveryFailure.
type Sender interface {
	SendOTP(ctx context.Context, channel domain.Channel, destination, code string) error
	SendStatusUpdate(ctx context.Context, channel domain.Channel, destination, templateID string, fields domain.StatusUpdate) error
}

type ServiceDeps struct {
	Mailer smtp.Mailer
	// SMSSender may be nil when SMS is not configured.
	SMSSender sns.SMSSender
	Timeout   time.Duration
	OTPTTL    time.Duration
}

type service struct {
	mailer    smtp.Mailer
	smsSender sns.SMSSender
	timeout   time.Duration
	otpTTL    time.Duration
}

func NewService(deps ServiceDeps) Sender {
	s := &service{
		mailer:    deps.Mailer,
		smsSender: deps.SMSSender,
		timeout:   deps.Timeout,
		otpTTL:    deps.OTPTTL,
	}
	if s.timeout <= 0 {
		s.timeout = defaultTimeout
	}
	if s.otpTTL <= 0 {
		s.otpTTL = 10 * time.Minute
	}
	return s
}

func (s *service) SendOTP(ctx context.Context, channel domain.Channel, destination, code string) error {
	minutes := int(s.otpTTL / time.Minute)
	switch channel {
	case domain.ChannelEmail:
		subject, body := renderOTPEmail(code, minutes)
		return s.email(ctx, destination, subject, body)
	case domain.ChannelSMS:
		return s.sms(ctx, destination, renderOTPSMS(code, minutes))
	default:
		return fmt.Errorf("unknown channel %q: %w", channel, domain.ErrDeliveryFailure)
	}
}

func (s *service) SendStatusUpdate(ctx context.Context, channel domain.Channel, destination, templateID string, fields domain.StatusUpdate) error {
	switch channel {
	case domain.ChannelEmail:
		subject, body, err := renderStatusEmail(templateID, fields)
		if err != nil {
			return fmt.Errorf("render %s: %v: %w", templateID, err, domain.ErrDeliveryFailure)
		}
		return s.email(ctx, destination, subject, body)
	case domain.ChannelSMS:
		body, err := renderStatusSMS(fields)
		if err != nil {
			return fmt.Errorf("render sms: %v: %w", err, domain.ErrDeliveryFailure)
		}
		return s.sms(ctx, destination, body)
	default:
		return fmt.Errorf("unknown channel %q: %w", channel, domain.ErrDeliveryFailure)
	}
}

func (s *service) email(ctx context.Context, to, subject, body string) error {
	if s.mailer == nil {
		return fmt.Errorf("email channel not configured: %w", domain.ErrDeliveryFailure)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.mailer.SendEmail(ctx, to, subject, body); err != nil {
		slog.Warn("email delivery failed", "to", to, "subject", subject, "err", err)
		return fmt.Errorf("send email: %v: %w", err, domain.ErrDeliveryFailure)
	}
	return nil
}

func (s *service) sms(ctx context.Context, to, body string) error {
	if s.smsSender == nil {
		return fmt.Errorf("sms channel not configured: %w", domain.ErrDeliveryFailure)
	}
	phone, err := FormatPhone(to)
	if err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrDeliveryFailure)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.smsSender.SendSMS(ctx, phone, body); err != nil {
		slog.Warn("sms delivery failed", "to", phone, "err", err)
		return fmt.Errorf("send sms: %v: %w", err, domain.ErrDeliveryFailure)
	}
	return nil
}

// FormatPhone converts local mobile numbers (09XXXXXXXXX) to +63 E.164 form.
// Numbers already in +63 form pass through.
func FormatPhone(phone string) (string, error) {
	p := strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
	switch {
	case strings.HasPrefix(p, "+63") && len(p) == 13:
		return p, nil
	case strings.HasPrefix(p, "09") && len(p) == 11:
		return "+63" + p[1:], nil
	}
	return "", fmt.Errorf("invalid phone number format %q", phone)
}
