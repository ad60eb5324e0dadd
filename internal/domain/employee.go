package domain

import "time"

// Gender values stored on an employee record.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// Roles. The role is the sole authorization claim carried in tokens.
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// Default profile pictures assigned at registration based on gender.
const (
	DefaultProfilePictureMale   = "https://cdn.employee-api.dev/avatars/default-male.png"
	DefaultProfilePictureFemale = "https://cdn.employee-api.dev/avatars/default-female.png"
)

// DefaultProfilePicture returns the gender-defaulted avatar URL.
func DefaultProfilePicture(gender string) string {
	if gender == GenderFemale {
		return DefaultProfilePictureFemale
	}
	return DefaultProfilePictureMale
}

// Employee is the identity record. Email is unique and stored trimmed and
// lowercased; Phone is unique when present. An employee is activated only
// once Verified is true.
type Employee struct {
	EmployeeID     string    `json:"id" dynamodbav:"employee_id"`
	FirstName      string    `json:"first_name" dynamodbav:"first_name"`
	LastName       string    `json:"last_name" dynamodbav:"last_name"`
	Email          string    `json:"email" dynamodbav:"email"`
	PasswordHash   string    `json:"-" dynamodbav:"password_hash"`
	Gender         string    `json:"gender" dynamodbav:"gender"`
	Phone          *string   `json:"phone,omitempty" dynamodbav:"phone"`
	ProfilePicture string    `json:"profile_picture" dynamodbav:"profile_picture"`
	Verified       bool      `json:"verified" dynamodbav:"verified"`
	Role           string    `json:"role" dynamodbav:"role"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}

// FullName joins the first and last name.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type CreateEmployeeRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	Gender    string  `json:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
	Phone     *string `json:"phone"`
	Role      string  `json:"role" validate:"required,oneof=ADMIN EMPLOYEE"`
}

type UpdateEmployeeRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Gender    *string `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role" validate:"omitempty,oneof=ADMIN EMPLOYEE"`
}

// EmployeeProfile is the public projection of an employee record. The
// password hash is never exposed.
type EmployeeProfile struct {
	ID             string  `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone,omitempty"`
	Gender         string  `json:"gender"`
	Role           string  `json:"role"`
	ProfilePicture string  `json:"profile_picture"`
	Verified       bool    `json:"verified"`
}

// NewEmployeeProfile projects an employee record to its public view.
func NewEmployeeProfile(e *Employee) *EmployeeProfile {
	return &EmployeeProfile{
		ID:             e.EmployeeID,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		Phone:          e.Phone,
		Gender:         e.Gender,
		Role:           e.Role,
		ProfilePicture: e.ProfilePicture,
		Verified:       e.Verified,
	}
}
