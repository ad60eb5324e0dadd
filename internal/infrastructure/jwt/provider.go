package jwtinfra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/employee-api/internal/config"
	"github.com/employee-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// refreshSubjectPrefix marks refresh-token subjects so a refresh token can be
// rejected where an access token is expected (and vice versa) purely from the
// claim content, without a side table.
const refreshSubjectPrefix = "#refresh"

// Claims holds the JWT payload fields. Subject carries the employee email,
// prefixed with refreshSubjectPrefix on refresh tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Email returns the subject with the refresh marker stripped.
func (c *Claims) Email() string {
	return strings.TrimPrefix(c.Subject, refreshSubjectPrefix)
}

// Provider signs and verifies HS256 access/refresh token pairs using a shared
// secret loaded once at startup.
type Provider struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &Provider{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}, nil
}

// IssuePair creates a short-lived access token and a long-lived refresh token
// bound to the given email and role.
func (p *Provider) IssuePair(email, role string) (access, refresh string, err error) {
	access, err = p.IssueAccess(email, role)
	if err != nil {
		return "", "", err
	}
	refresh, err = p.sign(refreshSubjectPrefix+email, role, p.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// IssueAccess creates a new access token only, leaving any refresh token
// untouched. Used by the refresh-token flow.
func (p *Provider) IssueAccess(email, role string) (string, error) {
	return p.sign(email, role, p.accessTTL)
}

func (p *Provider) sign(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// VerifyAccess validates an access token and returns its claims. A refresh
// token presented here fails with domain.ErrTokenWrongType.
func (p *Provider) VerifyAccess(tokenStr string) (*Claims, error) {
	claims, err := p.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(claims.Subject, refreshSubjectPrefix) {
		return nil, fmt.Errorf("refresh token used as access token: %w", domain.ErrTokenWrongType)
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token and returns the embedded email.
// An access token presented here fails with domain.ErrTokenWrongType.
func (p *Provider) VerifyRefresh(tokenStr string) (string, error) {
	claims, err := p.parse(tokenStr)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(claims.Subject, refreshSubjectPrefix) {
		return "", fmt.Errorf("access token used as refresh token: %w", domain.ErrTokenWrongType)
	}
	return claims.Email(), nil
}

func (p *Provider) parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token expired: %w", domain.ErrTokenExpired)
		}
		return nil, fmt.Errorf("malformed or unverifiable token: %w", domain.ErrTokenInvalid)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims: %w", domain.ErrTokenInvalid)
	}
	return claims, nil
}
