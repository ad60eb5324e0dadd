package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/employee-api/internal/domain"
)

// Mailer is the email delivery collaborator.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// SMSSender is the optional SMS delivery collaborator.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// Service delivers one-time passcodes to employees.
type Service interface {
	// SendOTP emails the code with retries. Returns an error wrapping
	// domain.ErrNotification once all attempts are exhausted. When SMS is
	// enabled and the employee has a phone on file, a copy of the code is
	// also published via SMS best-effort; only the email outcome decides
	// success or failure.
	SendOTP(ctx context.Context, e *domain.Employee, code string) error
}

type service struct {
	mailer     Mailer
	smsSender  SMSSender
	attempts   int
	backoff    time.Duration
	smsEnabled bool
}

type ServiceDeps struct {
	Mailer     Mailer
	SMSSender  SMSSender
	Attempts   int
	Backoff    time.Duration
	SMSEnabled bool
}

func NewService(deps ServiceDeps) Service {
	attempts := deps.Attempts
	if attempts < 1 {
		attempts = 1
	}
	return &service{
		mailer:     deps.Mailer,
		smsSender:  deps.SMSSender,
		attempts:   attempts,
		backoff:    deps.Backoff,
		smsEnabled: deps.SMSEnabled,
	}
}

func (s *service) SendOTP(ctx context.Context, e *domain.Employee, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf("Hi %s,\r\n\r\nYour one-time passcode is: %s\r\n\r\nIt expires shortly. If you did not request this, ignore this email.", e.FirstName, code)

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		lastErr = s.mailer.SendEmail(e.Email, subject, body)
		if lastErr == nil {
			s.sendSMSCopy(ctx, e, code)
			return nil
		}
		slog.Warn("otp email attempt failed",
			"email", e.Email, "attempt", attempt, "of", s.attempts, "err", lastErr)
		if attempt == s.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("otp email to %s cancelled: %w", e.Email, ctx.Err())
		case <-time.After(s.backoff):
		}
	}
	return fmt.Errorf("otp email to %s failed after %d attempts: %w", e.Email, s.attempts, domain.ErrNotification)
}

// sendSMSCopy publishes the code to the employee's phone when configured.
// Failures are logged only; SMS is a secondary channel.
func (s *service) sendSMSCopy(ctx context.Context, e *domain.Employee, code string) {
	if !s.smsEnabled || s.smsSender == nil || e.Phone == nil || *e.Phone == "" {
		return
	}
	msg := "Your verification code: " + code
	if err := s.smsSender.SendSMS(ctx, *e.Phone, msg); err != nil {
		slog.Warn("otp sms copy failed", "email", e.Email, "err", err)
	}
}
