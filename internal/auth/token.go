package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. They stay distinct here so callers can log the
// kind; the HTTP boundary collapses all of them to a single 401.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
)

// Claims is the identity payload carried in a signed token. Register-issued
// tokens populate `id`; login-issued tokens populate `customer_id` plus the
// profile fields. SubjectID resolves either form.
type Claims struct {
	jwt.RegisteredClaims
	ID         string `json:"id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
	Email      string `json:"email,omitempty"`
	Username   string `json:"username,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Image      string `json:"image,omitempty"`
	IsAdmin    bool   `json:"is_admin,omitempty"`
}

// SubjectID returns the customer id asserted by the claims, preferring the
// `customer_id` claim consumed downstream.
func (c *Claims) SubjectID() string {
	if c.CustomerID != "" {
		return c.CustomerID
	}
	return c.ID
}

// TokenService signs and verifies HS256 tokens with an injected secret.
type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
}

func NewTokenService(secret string, defaultTTL time.Duration) *TokenService {
	if defaultTTL <= 0 {
		defaultTTL = 7 * 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), defaultTTL: defaultTTL}
}

// DefaultTTL is the configured token lifetime used when Issue gets ttl <= 0.
func (s *TokenService) DefaultTTL() time.Duration { return s.defaultTTL }

// Issue signs claims with iat/exp set from issue-time + ttl. A zero ttl
// falls back to the configured default.
func (s *TokenService) Issue(claims Claims, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry, returning the decoded claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrTokenMalformed
	case err != nil:
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
