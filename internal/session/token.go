package session

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/staff-directory/internal/domain"
)

// TokenCodec issues and validates signed session tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec builds a codec.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// Claims describes the session token payload.
type Claims struct {
	SessionID    string             `json:"sid"`
	BusinessCode string             `json:"business_code"`
	VenueCode    string             `json:"venue_code,omitempty"`
	AccessLevel  domain.AccessLevel `json:"access_level"`
	jwt.RegisteredClaims
}

// Issue signs a token for the session.
func (tc *TokenCodec) Issue(sessionID string, auth domain.AuthContext) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tc.ttl)
	claims := &Claims{
		SessionID:    sessionID,
		BusinessCode: auth.BusinessCode,
		VenueCode:    auth.VenueCode,
		AccessLevel:  auth.AccessLevel,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tc.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates a token and returns its claims.
func (tc *TokenCodec) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tc.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Auth returns the context carried by the claims.
func (c *Claims) Auth() domain.AuthContext {
	return domain.AuthContext{BusinessCode: c.BusinessCode, VenueCode: c.VenueCode, AccessLevel: c.AccessLevel}
}
