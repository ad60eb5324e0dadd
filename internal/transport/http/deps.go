package http

import (
	"github.com/employee-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/employee-api/internal/infrastructure/jwt"
	s3infra "github.com/employee-api/internal/infrastructure/s3"
	"github.com/employee-api/internal/infrastructure/smtp"
	"github.com/employee-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	EmployeeRepo *dynamo.EmployeeRepo
	OTPRepo      *dynamo.OTPRepo
	S3Store      *s3infra.Store
	Mailer       smtp.Mailer
	SMSSender    sns.SMSSender
	JWTProvider  *jwtinfra.Provider
}
