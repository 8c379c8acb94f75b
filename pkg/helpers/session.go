package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSessionExpired means the token was well-formed and correctly signed
	// but its expiry has elapsed. Callers may prompt for re-authentication.
	ErrSessionExpired = errors.New("session expired")
	// ErrSessionInvalid covers signature mismatches and malformed tokens.
	ErrSessionInvalid = errors.New("session invalid")
)

// Identity is the minimal set of claims embedded in a session token.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Image    string `json:"image"`
}

// SessionClaims is the JWT payload of a session token.
type SessionClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	jwt.RegisteredClaims
}

// Identity reconstructs the identity carried by the claims.
func (c *SessionClaims) Identity() Identity {
	return Identity{
		ID:       c.Subject,
		Username: c.Username,
		Email:    c.Email,
		Name:     c.Name,
		Image:    c.Image,
	}
}

// SessionManager mints and validates stateless session tokens. There is no
// server-side session table, so a token cannot be revoked before it expires;
// its lifecycle is active until expiry, terminal after.
type SessionManager struct {
	Secret []byte
	MaxAge time.Duration
}

func NewSessionManager(secret string, maxAge time.Duration) *SessionManager {
	return &SessionManager{Secret: []byte(secret), MaxAge: maxAge}
}

// Issue signs a session token carrying the identity claims.
func (m *SessionManager) Issue(id Identity) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.MaxAge)
	claims := &SessionClaims{
		Username: id.Username,
		Email:    id.Email,
		Name:     id.Name,
		Image:    id.Image,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Validate parses and verifies a session token. Expired tokens return
// ErrSessionExpired, everything else that fails returns ErrSessionInvalid.
func (m *SessionManager) Validate(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrSessionInvalid
	}
	if !tkn.Valid {
		return nil, ErrSessionInvalid
	}
	return claims, nil
}
