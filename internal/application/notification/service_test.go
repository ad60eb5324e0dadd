package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/employee-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

func testEmployee(phone *string) *domain.Employee {
	return &domain.Employee{
		EmployeeID: "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		FirstName:  "Lena",
		LastName:   "Voss",
		Email:      "lena.voss@example.com",
		Phone:      phone,
	}
}

func TestSendOTP_EmailSucceedsFirstTry(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("SendEmail", "lena.voss@example.com", mock.Anything, mock.MatchedBy(func(body string) bool {
		return len(body) > 0
	})).Return(nil).Once()

	svc := NewService(ServiceDeps{Mailer: mailer, Attempts: 3, Backoff: time.Millisecond})

	err := svc.SendOTP(context.Background(), testEmployee(nil), "123456")
	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestSendOTP_RetriesThenSucceeds(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp down")).Twice()
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()

	svc := NewService(ServiceDeps{Mailer: mailer, Attempts: 3, Backoff: time.Millisecond})

	err := svc.SendOTP(context.Background(), testEmployee(nil), "123456")
	require.NoError(t, err)
	mailer.AssertNumberOfCalls(t, "SendEmail", 3)
}

func TestSendOTP_ExhaustsAttempts(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp down"))

	svc := NewService(ServiceDeps{Mailer: mailer, Attempts: 3, Backoff: time.Millisecond})

	err := svc.SendOTP(context.Background(), testEmployee(nil), "123456")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotification)
	mailer.AssertNumberOfCalls(t, "SendEmail", 3)
}

func TestSendOTP_ContextCancelledBetweenRetries(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp down"))

	svc := NewService(ServiceDeps{Mailer: mailer, Attempts: 5, Backoff: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.SendOTP(ctx, testEmployee(nil), "123456")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	mailer.AssertNumberOfCalls(t, "SendEmail", 1)
}

func TestSendOTP_SMSCopyWhenEnabled(t *testing.T) {
	phone := "+15550001111"
	mailer := &mockMailer{}
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	sms := &mockSMSSender{}
	sms.On("SendSMS", mock.Anything, phone, mock.MatchedBy(func(msg string) bool {
		return msg == "Your verification code: 654321"
	})).Return(nil).Once()

	svc := NewService(ServiceDeps{
		Mailer: mailer, SMSSender: sms,
		Attempts: 1, Backoff: time.Millisecond, SMSEnabled: true,
	})

	err := svc.SendOTP(context.Background(), testEmployee(&phone), "654321")
	require.NoError(t, err)
	sms.AssertExpectations(t)
}

func TestSendOTP_SMSFailureDoesNotFailSend(t *testing.T) {
	phone := "+15550001111"
	mailer := &mockMailer{}
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	sms := &mockSMSSender{}
	sms.On("SendSMS", mock.Anything, phone, mock.Anything).Return(errors.New("sns unavailable")).Once()

	svc := NewService(ServiceDeps{
		Mailer: mailer, SMSSender: sms,
		Attempts: 1, Backoff: time.Millisecond, SMSEnabled: true,
	})

	err := svc.SendOTP(context.Background(), testEmployee(&phone), "654321")
	require.NoError(t, err)
}

func TestSendOTP_NoSMSWithoutPhone(t *testing.T) {
	mailer := &mockMailer{}
	mailer.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	sms := &mockSMSSender{}

	svc := NewService(ServiceDeps{
		Mailer: mailer, SMSSender: sms,
		Attempts: 1, Backoff: time.Millisecond, SMSEnabled: true,
	})

	err := svc.SendOTP(context.Background(), testEmployee(nil), "654321")
	require.NoError(t, err)
	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}
