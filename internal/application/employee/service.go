package employee

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/employee-api/internal/domain"
	"github.com/employee-api/internal/pkg/id"
	"github.com/employee-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldFirstName      = "first_name"
	fieldLastName       = "last_name"
	fieldEmail          = "email"
	fieldGender         = "gender"
	fieldPhone          = "phone"
	fieldRole           = "role"
	fieldProfilePicture = "profile_picture"
)

// Service is the plain CRUD surface over employee records. It sits outside
// the registration flow: records created here are active immediately.
type Service interface {
	Create(ctx context.Context, req domain.CreateEmployeeRequest) (*domain.Employee, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.Employee, string, error)
	Get(ctx context.Context, employeeID string) (*domain.Employee, error)
	Update(ctx context.Context, employeeID string, req domain.UpdateEmployeeRequest) (*domain.Employee, error)
	Delete(ctx context.Context, employeeID string) error
	UploadProfilePicture(ctx context.Context, employeeID string, r io.Reader, contentType string) (string, error)
}

type employeeStore interface {
	Put(ctx context.Context, e *domain.Employee) error
	Get(ctx context.Context, employeeID string) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Employee, error)
	Update(ctx context.Context, employeeID string, updates map[string]interface{}) error
	Delete(ctx context.Context, employeeID string) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Employee, string, error)
}

type pictureStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	ResolveURL(ctx context.Context, ref string) (string, error)
}

type service struct {
	repo     employeeStore
	pictures pictureStore
}

type ServiceDeps struct {
	EmployeeRepo employeeStore
	PictureStore pictureStore
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.EmployeeRepo, pictures: deps.PictureStore}
}

// Create inserts an already-active record. Email and phone uniqueness are
// checked against the GSIs before writing.
func (s *service) Create(ctx context.Context, req domain.CreateEmployeeRequest) (*domain.Employee, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrAlreadyExists)
	}
	if req.Phone != nil && *req.Phone != "" {
		if _, err := s.repo.GetByPhone(ctx, *req.Phone); err == nil {
			return nil, fmt.Errorf("phone number already in use, pick a different phone: %w", domain.ErrAlreadyExists)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
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
		Verified:       true,
		Role:           req.Role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Put(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns a page of records. Profile-picture references are returned as
// stored; only Get resolves them to fetchable URLs.
func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.Employee, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) Get(ctx context.Context, employeeID string) (*domain.Employee, error) {
	e, err := s.repo.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if s.pictures != nil {
		url, err := s.pictures.ResolveURL(ctx, e.ProfilePicture)
		if err == nil {
			e.ProfilePicture = url
		}
	}
	return e, nil
}

func (s *service) Update(ctx context.Context, employeeID string, req domain.UpdateEmployeeRequest) (*domain.Employee, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}
	current, err := s.repo.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates[fieldFirstName] = *req.FirstName
	}
	if req.LastName != nil {
		updates[fieldLastName] = *req.LastName
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != current.Email {
			if other, err := s.repo.GetByEmail(ctx, email); err == nil && other.EmployeeID != employeeID {
				return nil, fmt.Errorf("email already registered: %w", domain.ErrAlreadyExists)
			}
		}
		updates[fieldEmail] = email
	}
	if req.Gender != nil {
		updates[fieldGender] = *req.Gender
	}
	if req.Phone != nil && *req.Phone != "" {
		if other, err := s.repo.GetByPhone(ctx, *req.Phone); err == nil && other.EmployeeID != employeeID {
			return nil, fmt.Errorf("phone number already in use, pick a different phone: %w", domain.ErrAlreadyExists)
		}
		updates[fieldPhone] = *req.Phone
	}
	if req.Role != nil {
		updates[fieldRole] = *req.Role
	}

	if len(updates) == 0 {
		return current, nil
	}
	if err := s.repo.Update(ctx, employeeID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, employeeID)
}

// Delete removes a record permanently. The prior Get makes an unknown id a
// proper not-found instead of a silent no-op.
func (s *service) Delete(ctx context.Context, employeeID string) error {
	if _, err := s.repo.Get(ctx, employeeID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, employeeID)
}

// UploadProfilePicture stores the image and points the record at it.
// Returns a presigned URL for immediate display.
func (s *service) UploadProfilePicture(ctx context.Context, employeeID string, r io.Reader, contentType string) (string, error) {
	if s.pictures == nil {
		return "", errors.New("picture storage is not configured")
	}
	if _, err := s.repo.Get(ctx, employeeID); err != nil {
		return "", err
	}
	key, err := s.pictures.Upload(ctx, "profile-pictures/"+employeeID, r, contentType)
	if err != nil {
		return "", err
	}
	if err := s.repo.Update(ctx, employeeID, map[string]interface{}{fieldProfilePicture: key}); err != nil {
		return "", err
	}
	return s.pictures.ResolveURL(ctx, key)
}
