package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type (
	User struct {
		Username string
		Email    string
		Phone    string
	}

	Credentials struct {
		Username string
		Email    string
		Password string
	}

	Registration struct {
		Username        string
		Email           string
		Phone           string
		Password        string
		ConfirmPassword string
	}
)

// A Session is the explicit auth state of a storefront user. The zero value
// is an anonymous session.
type Session struct {
	Token     string
	User      User
	ExpiresAt time.Time
}

// NewSession creates a session for an opaque bearer token.
//
// When the token happens to be a JWT its "exp" claim is read without
// signature verification so an expired login is detected locally.
func NewSession(token string) Session {
	s := Session{Token: token}
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return s
	}
	exp, err := claims.GetExpirationTime()
	if err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}
	return s
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Check returns nil when the session can be used for authorized calls.
func (s Session) Check(now time.Time) error {
	if !s.Authenticated() {
		return ErrUnauthenticated
	}
	if s.Expired(now) {
		return ErrAuthExpired
	}
	return nil
}

func (c Credentials) Validate() error {
	if c.Username == "" && c.Email == "" {
		return fmt.Errorf("%w: username or email", ErrMissingField)
	}
	if c.Password == "" {
		return fmt.Errorf("%w: password", ErrMissingField)
	}
	return nil
}

func (r Registration) Validate() error {
	var missing []string
	if r.Username == "" {
		missing = append(missing, "username")
	}
	if r.Email == "" {
		missing = append(missing, "email")
	}
	if r.Phone == "" {
		missing = append(missing, "phone")
	}
	if r.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) != 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	if r.Password != r.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}
