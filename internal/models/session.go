package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload of the signed session cookie. Subject holds the user id.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// CurrentUser is the identity bound to a request.
type CurrentUser interface {
	IsAuthenticated() bool
	GetID() string
	DisplayName() string
}

type anonymousUser struct{}

func (anonymousUser) IsAuthenticated() bool { return false }
func (anonymousUser) GetID() string         { return "" }
func (anonymousUser) DisplayName() string   { return "" }

// AnonymousUser is bound to requests without a valid session.
var AnonymousUser CurrentUser = anonymousUser{}

// IsAuthenticated is always true for a persisted user.
func (u *User) IsAuthenticated() bool { return true }

// GetID returns the identifier stored in the session cookie.
func (u *User) GetID() string { return u.ID }

// DisplayName returns the login.
func (u *User) DisplayName() string { return u.Login }
