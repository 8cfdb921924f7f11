package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/BradenHooton/searchdesk/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionIssuer = "searchdesk"

// ErrNoSession is returned by Resolve when the request carries no session cookie
var ErrNoSession = errors.New("no session")

// SessionManager issues and verifies the signed session cookie
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	cookie CookieConfig
	now    func() time.Time
}

// NewSessionManager creates a SessionManager signing with secret
func NewSessionManager(secret string, ttl time.Duration, cookie CookieConfig) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		cookie: cookie,
		now:    time.Now,
	}
}

// Login binds user to the client by setting a fresh session cookie
func (sm *SessionManager) Login(w http.ResponseWriter, user *models.User) error {
	token, err := sm.issue(user.ID)
	if err != nil {
		return err
	}
	setSessionCookie(w, token, sm.ttl, sm.cookie)
	return nil
}

// Logout clears the session cookie
func (sm *SessionManager) Logout(w http.ResponseWriter) {
	clearSessionCookie(w, sm.cookie)
}

// Resolve returns the user id stored in the request's session cookie
func (sm *SessionManager) Resolve(r *http.Request) (string, error) {
	token, err := getSessionCookie(r)
	if err != nil || token == "" {
		return "", ErrNoSession
	}

	claims, err := sm.verify(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (sm *SessionManager) issue(userID string) (string, error) {
	now := sm.now()
	claims := &models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    sessionIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sm.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return token, nil
}

func (sm *SessionManager) verify(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return sm.secret, nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(sm.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, models.ErrUnauthorized
	}

	return claims, nil
}
