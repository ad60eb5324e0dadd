package employee

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/employee-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockEmployeeStore struct{ mock.Mock }

func (m *mockEmployeeStore) Put(ctx context.Context, e *domain.Employee) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockEmployeeStore) Get(ctx context.Context, employeeID string) (*domain.Employee, error) {
	args := m.Called(ctx, employeeID)
	if e, _ := args.Get(0).(*domain.Employee); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEmployeeStore) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	args := m.Called(ctx, email)
	if e, _ := args.Get(0).(*domain.Employee); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEmployeeStore) GetByPhone(ctx context.Context, phone string) (*domain.Employee, error) {
	args := m.Called(ctx, phone)
	if e, _ := args.Get(0).(*domain.Employee); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEmployeeStore) Update(ctx context.Context, employeeID string, updates map[string]interface{}) error {
	return m.Called(ctx, employeeID, updates).Error(0)
}
func (m *mockEmployeeStore) Delete(ctx context.Context, employeeID string) error {
	return m.Called(ctx, employeeID).Error(0)
}
func (m *mockEmployeeStore) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Employee, string, error) {
	args := m.Called(ctx, limit, cursor)
	var items []domain.Employee
	if v, ok := args.Get(0).([]domain.Employee); ok {
		items = v
	}
	return items, args.String(1), args.Error(2)
}

type mockPictureStore struct{ mock.Mock }

func (m *mockPictureStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockPictureStore) ResolveURL(ctx context.Context, ref string) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func wrappedNotFound() error {
	return fmt.Errorf("employee: %w", domain.ErrNotFound)
}

func sampleEmployee() *domain.Employee {
	return &domain.Employee{
		EmployeeID:     "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		FirstName:      "Omar",
		LastName:       "Reyes",
		Email:          "omar.reyes@example.com",
		Gender:         domain.GenderMale,
		ProfilePicture: domain.DefaultProfilePictureMale,
		Verified:       true,
		Role:           domain.RoleEmployee,
	}
}

func createRequest() domain.CreateEmployeeRequest {
	return domain.CreateEmployeeRequest{
		FirstName: "Omar",
		LastName:  "Reyes",
		Email:     "omar.reyes@example.com",
		Password:  "s3cret-pass",
		Gender:    domain.GenderMale,
		Role:      domain.RoleEmployee,
	}
}

// --- tests ---

func TestCreate_Success(t *testing.T) {
	repo := &mockEmployeeStore{}
	repo.On("GetByEmail", mock.Anything, "omar.reyes@example.com").Return(nil, wrappedNotFound())

	var stored *domain.Employee
	repo.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.Employee)
	}).Return(nil)

	svc := NewService(ServiceDeps{EmployeeRepo: repo})

	e, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)
	assert.Equal(t, stored, e)
	assert.True(t, e.Verified)
	assert.NotEmpty(t, e.EmployeeID)
	assert.Equal(t, domain.DefaultProfilePictureMale, e.ProfilePicture)
	assert.NotEqual(t, "s3cret-pass", e.PasswordHash)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo := &mockEmployeeStore{}
	repo.On("GetByEmail", mock.Anything, mock.Anything).Return(sampleEmployee(), nil)

	svc := NewService(ServiceDeps{EmployeeRepo: repo})

	_, err := svc.Create(context.Background(), createRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreate_DuplicatePhone(t *testing.T) {
	phone := "+15550001111"
	req := createRequest()
	req.Phone = &phone

	repo := &mockEmployeeStore{}
	repo.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, wrappedNotFound())
	repo.On("GetByPhone", mock.Anything, phone).Return(sampleEmployee(), nil)

	svc := NewService(ServiceDeps{EmployeeRepo: repo})

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestCreate_InvalidRole(t *testing.T) {
	req := createRequest()
	req.Role = "SUPERUSER"

	svc := NewService(ServiceDeps{EmployeeRepo: &mockEmployeeStore{}})

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestList_DefaultsLimit(t *testing.T) {
	repo := &mockEmployeeStore{}
	repo.On("ScanPage", mock.Anything, int32(50), "").
		Return([]domain.Employee{*sampleEmployee()}, "next-cursor", nil)

	svc := NewService(ServiceDeps{EmployeeRepo: repo})

	items, next, err := svc.List(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "next-cursor", next)
}

func TestGet_ResolvesPictureURL(t *testing.T) {
	e := sampleEmployee()
	e.ProfilePicture = "profile-pictures/" + e.EmployeeID

	repo := &mockEmployeeStore{}
	repo.On("Get", mock.Anything, e.EmployeeID).Return(e, nil)

	pics := &mockPictureStore{}
	pics.On("ResolveURL", mock.Anything, "profile-pictures/"+e.EmployeeID).
		Return("https://bucket.example.com/signed", nil)

	svc := NewService(ServiceDeps{EmployeeRepo: repo, PictureStore: pics})

	got, err := svc.Get(context.Background(), e.EmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example.com/signed", got.ProfilePicture)
}

func TestGet_NotFound(t *testing.T) {
	repo := &mockEmployeeStore{}
	repo.On("Get", mock.Anything, mock.Anything).Return(nil, wrappedNotFound())

	svc := NewService(ServiceDeps{EmployeeRepo: repo})

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_PartialFields(t *testing.T) {
	e := sampleEmployee()

	repo := &mockEmployeeStore{}
	repo.On("Get", mock.Anything, e.EmployeeID).Return(e, nil)

	var updates map[string]interface{}
	repo.On("Update", mock.Anything, e.EmployeeID, mock.Anything).Run(func(args mock.Arguments) {
		updates = args.Get(2).(map[string]interface{})
	}).Return(nil)

	svc := NewService(ServiceDeps{EmployeeRepo: repo})

	first := "Omar-Luis"
	_, err := svc.Update(context.Background(), e.EmployeeID, domain.UpdateEmployeeRequest{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"first_name": "Omar-Luis"}, updates)
}

func TestUpdate_EmailTakenByAnother(t *testing.T) {
	e := sampleEmployee()
	other := sampleEmployee()
	other.EmployeeID = "01BX5ZZKBKACTAV9WEVGEMMVS0"
	other.Email = "taken@example.com"

	repo := &mockEmployeeStore{}
	repo.On("Get", mock.Anything, e.EmployeeID).Return(e, nil)
	repo.On("GetByEmail", mock.Anything, "taken@example.com").Return(other, nil)

	svc := NewService(ServiceDeps{EmployeeRepo: repo})

	email := "Taken@Example.com"
	_, err := svc.Update(context.Background(), e.EmployeeID, domain.UpdateEmployeeRequest{Email: &email})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_NoFieldsReturnsCurrent(t *testing.T) {
	e := sampleEmployee()

	repo := &mockEmployeeStore{}
	repo.On("Get", mock.Anything, e.EmployeeID).Return(e, nil)

	svc := NewService(ServiceDeps{EmployeeRepo: repo})

	got, err := svc.Update(context.Background(), e.EmployeeID, domain.UpdateEmployeeRequest{})
	require.NoError(t, err)
	assert.Equal(t, e, got)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_UnknownIDIsNotFound(t *testing.T) {
	repo := &mockEmployeeStore{}
	repo.On("Get", mock.Anything, "missing").Return(nil, wrappedNotFound())

	svc := NewService(ServiceDeps{EmployeeRepo: repo})

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_Success(t *testing.T) {
	e := sampleEmployee()

	repo := &mockEmployeeStore{}
	repo.On("Get", mock.Anything, e.EmployeeID).Return(e, nil)
	repo.On("Delete", mock.Anything, e.EmployeeID).Return(nil)

	svc := NewService(ServiceDeps{EmployeeRepo: repo})

	require.NoError(t, svc.Delete(context.Background(), e.EmployeeID))
	repo.AssertCalled(t, "Delete", mock.Anything, e.EmployeeID)
}

func TestUploadProfilePicture(t *testing.T) {
	e := sampleEmployee()
	key := "profile-pictures/" + e.EmployeeID

	repo := &mockEmployeeStore{}
	repo.On("Get", mock.Anything, e.EmployeeID).Return(e, nil)
	repo.On("Update", mock.Anything, e.EmployeeID, map[string]interface{}{"profile_picture": key}).Return(nil)

	pics := &mockPictureStore{}
	pics.On("Upload", mock.Anything, key, mock.Anything, "image/png").Return(key, nil)
	pics.On("ResolveURL", mock.Anything, key).Return("https://bucket.example.com/signed", nil)

	svc := NewService(ServiceDeps{EmployeeRepo: repo, PictureStore: pics})

	url, err := svc.UploadProfilePicture(context.Background(), e.EmployeeID, strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example.com/signed", url)
	repo.AssertExpectations(t)
}
