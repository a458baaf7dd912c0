// Package auth issues and validates the stateless session tokens that
// authenticate employees after login.
//
// A token is an HS256 JWT carrying {empid, iat, exp}. Nothing is stored on
// the server: a token is valid exactly while its signature checks out and the
// clock is before exp. There is no revocation.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/empvault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the registered claims (iat, exp) plus the employee public id.
type Claims struct {
	jwt.RegisteredClaims
	PublicID string `json:"empid"`
}

// TokenService signs and checks session tokens with a process-wide secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customizes a TokenService.
type Option func(*TokenService)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenService builds a TokenService. The secret must not be empty and the
// TTL must be positive.
func NewTokenService(secret []byte, ttl time.Duration, opts ...Option) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	s := &TokenService{secret: append([]byte(nil), secret...), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue returns a signed token for publicID valid for the configured TTL.
func (s *TokenService) Issue(publicID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		PublicID: publicID,
	})

	return token.SignedString(s.secret)
}

// Validate checks the signature and expiry of tokenString and returns its
// claims. Every failure is reported as common.ErrInvalidToken.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.PublicID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
