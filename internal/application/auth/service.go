package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/employee-api/internal/domain"
	"github.com/employee-api/internal/pkg/id"
	pkgotp "github.com/employee-api/internal/pkg/otp"
	"github.com/employee-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldVerified     = "verified"
	fieldPasswordHash = "password_hash"
)

type RegisterVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenPairResponse struct {
	AccessToken  string                  `json:"access_token"`
	RefreshToken string                  `json:"refresh_token"`
	Profile      *domain.EmployeeProfile `json:"profile"`
}

// RefreshTokenResponse carries a fresh access token only; the refresh token
// presented by the caller stays valid until its own expiry.
type RefreshTokenResponse struct {
	AccessToken string                  `json:"access_token"`
	Profile     *domain.EmployeeProfile `json:"profile"`
}

// Service is the registration/verification/login state machine. States per
// email are implicit: no record, record with verified=false, record with
// verified=true. Only OTP verification advances an unverified record.
type Service interface {
	Register(ctx context.Context, req domain.CreateEmployeeRequest) error
	VerifyRegistration(ctx context.Context, req RegisterVerifyRequest) (*TokenPairResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenPairResponse, error)
	ResendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	RefreshAccessToken(ctx context.Context, refreshToken string) (*RefreshTokenResponse, error)
	MyProfile(ctx context.Context, email string) (*domain.EmployeeProfile, error)
}

type employeeStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Employee, error)
	Put(ctx context.Context, e *domain.Employee) error
	Update(ctx context.Context, employeeID string, updates map[string]interface{}) error
}

type otpStore interface {
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

type otpNotifier interface {
	SendOTP(ctx context.Context, e *domain.Employee, code string) error
}

type tokenIssuer interface {
	IssuePair(email, role string) (access, refresh string, err error)
	IssueAccess(email, role string) (string, error)
	VerifyRefresh(token string) (string, error)
}

type service struct {
	repo      employeeStore
	otpRepo   otpStore
	notifier  otpNotifier
	tokens    tokenIssuer
	otpLength int
	otpTTL    time.Duration
}

type ServiceDeps struct {
	EmployeeRepo employeeStore
	OTPRepo      otpStore
	Notifier     otpNotifier
	Tokens       tokenIssuer
	OTPLength    int
	OTPTTL       time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:      deps.EmployeeRepo,
		otpRepo:   deps.OTPRepo,
		notifier:  deps.Notifier,
		tokens:    deps.Tokens,
		otpLength: deps.OTPLength,
		otpTTL:    deps.OTPTTL,
	}
}

// normalizeEmail trims and lowercases so lookups are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register starts (or restarts) the verification flow for an email. A
// verified duplicate is rejected; an unverified duplicate has its profile
// fields overwritten under the same employee_id. The record is persisted only
// after the OTP email goes out, so a send failure never leaves behind an
// account that cannot receive its code.
func (s *service) Register(ctx context.Context, req domain.CreateEmployeeRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if existing != nil && existing.Verified {
		return fmt.Errorf("employee already exists: %w", domain.ErrAlreadyExists)
	}

	if req.Phone != nil && *req.Phone != "" {
		other, err := s.repo.GetByPhone(ctx, *req.Phone)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if other != nil && (existing == nil || other.EmployeeID != existing.EmployeeID) {
			return fmt.Errorf("phone number already in use, pick a different phone: %w", domain.ErrAlreadyExists)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	e := &domain.Employee{
		EmployeeID:     id.New(),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PasswordHash:   string(hash),
		Gender:         req.Gender,
		Phone:          req.Phone,
		ProfilePicture: domain.DefaultProfilePicture(req.Gender),
		Verified:       false,
		Role:           req.Role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if existing != nil {
		// Re-registration before verification keeps the identity row.
		e.EmployeeID = existing.EmployeeID
		e.CreatedAt = existing.CreatedAt
	}

	code, err := pkgotp.Generate(s.otpLength)
	if err != nil {
		return err
	}
	if err := s.otpRepo.Put(ctx, e.Email, code, s.otpTTL); err != nil {
		return err
	}
	if err := s.notifier.SendOTP(ctx, e, code); err != nil {
		return err
	}
	return s.repo.Put(ctx, e)
}

// VerifyRegistration checks the code and activates the account. An absent
// cache entry means the code expired (or was never issued); a present entry
// with a different code is a mismatch. On success the cached code is cleared
// so it cannot be replayed.
func (s *service) VerifyRegistration(ctx context.Context, req RegisterVerifyRequest) (*TokenPairResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}

	e, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.matchOTP(ctx, req.Email, req.OTP); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e.EmployeeID, map[string]interface{}{fieldVerified: true}); err != nil {
		return nil, err
	}
	e.Verified = true
	if err := s.otpRepo.Delete(ctx, req.Email); err != nil {
		slog.Warn("failed to clear verified OTP", "email", req.Email, "err", err)
	}

	access, refresh, err := s.tokens.IssuePair(e.Email, e.Role)
	if err != nil {
		return nil, err
	}
	return &TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Profile:      domain.NewEmployeeProfile(e),
	}, nil
}

// Login authenticates a verified employee and issues a token pair. An
// unverified employee is rejected even with correct credentials.
func (s *service) Login(ctx context.Context, req LoginRequest) (*TokenPairResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}

	e, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if !e.Verified {
		return nil, fmt.Errorf("account is not verified, complete registration first: %w", domain.ErrBadCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("incorrect password: %w", domain.ErrBadCredentials)
	}

	access, refresh, err := s.tokens.IssuePair(e.Email, e.Role)
	if err != nil {
		return nil, err
	}
	return &TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Profile:      domain.NewEmployeeProfile(e),
	}, nil
}

// ResendOTP issues a fresh code only when no unexpired code is outstanding.
// One code per email at a time; callers hitting the limit must wait out the
// current code's TTL.
func (s *service) ResendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	e, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	_, err = s.otpRepo.Get(ctx, email)
	if err == nil {
		return fmt.Errorf("an active code was already sent, retry after it expires: %w", domain.ErrRateLimited)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	code, err := pkgotp.Generate(s.otpLength)
	if err != nil {
		return err
	}
	if err := s.otpRepo.Put(ctx, email, code, s.otpTTL); err != nil {
		return err
	}
	return s.notifier.SendOTP(ctx, e, code)
}

// VerifyOTP checks a code without touching the employee record. Used as a
// gate before password reset; the cached code is left in place.
func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err != nil {
		return err
	}
	return s.matchOTP(ctx, req.Email, req.OTP)
}

// ResetPassword replaces the password hash. The confirmation mismatch check
// runs before any lookup so a bad request leaves no trace in storage access.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return fmt.Errorf("passwords do not match: %w", domain.ErrValidation)
	}
	req.Email = normalizeEmail(req.Email)
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}

	e, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, e.EmployeeID, map[string]interface{}{fieldPasswordHash: string(hash)}); err != nil {
		return err
	}
	if err := s.otpRepo.Delete(ctx, req.Email); err != nil {
		slog.Warn("failed to clear OTP after password reset", "email", req.Email, "err", err)
	}
	return nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access token.
// The refresh token itself is not rotated.
func (s *service) RefreshAccessToken(ctx context.Context, refreshToken string) (*RefreshTokenResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required: %w", domain.ErrValidation)
	}
	email, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	e, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	access, err := s.tokens.IssueAccess(e.Email, e.Role)
	if err != nil {
		return nil, err
	}
	return &RefreshTokenResponse{
		AccessToken: access,
		Profile:     domain.NewEmployeeProfile(e),
	}, nil
}

func (s *service) MyProfile(ctx context.Context, email string) (*domain.EmployeeProfile, error) {
	e, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return domain.NewEmployeeProfile(e), nil
}

// matchOTP applies the shared code-matching rules: absent or lazily expired
// entries read as expired, a present entry must match exactly.
func (s *service) matchOTP(ctx context.Context, email, code string) error {
	cached, err := s.otpRepo.Get(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("the code has expired, request a new one: %w", domain.ErrOTPExpired)
	}
	if err != nil {
		return err
	}
	if cached != code {
		return fmt.Errorf("incorrect OTP has been entered: %w", domain.ErrOTPMismatch)
	}
	return nil
}
