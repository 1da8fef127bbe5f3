package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/AnthoniusHendriyanto/post-service/internal/auth/service TokenGenerator

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenValidity = 30 * 24 * time.Hour

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(tokenString string) (string, bool)
}

type TokenGenerator interface {
	TokenVerifier
	Issue(userID string) (string, time.Time, error)
	Validity() time.Duration
}

type TokenService struct {
	secret   []byte
	method   *jwt.SigningMethodHMAC
	validity time.Duration
	now      func() time.Time
}

// TokenClaims is the signed payload. Expires is unix seconds with a
// fractional part; a token is valid while Expires >= now.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID  string  `json:"user_id"`
	Expires float64 `json:"expires"`
}

// NewTokenService builds a token service for an HMAC algorithm (HS256, HS384
// or HS512). The secret and algorithm are fixed for the life of the service.
func NewTokenService(secret, algorithm string, validity time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if validity <= 0 {
		return nil, fmt.Errorf("token validity must be positive, got %s", validity)
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	return &TokenService{
		secret:   []byte(secret),
		method:   method,
		validity: validity,
		now:      time.Now,
	}, nil
}

func (ts *TokenService) Validity() time.Duration {
	return ts.validity
}

// Issue signs a token for userID that expires one validity window from now.
func (ts *TokenService) Issue(userID string) (string, time.Time, error) {
	now := ts.now()
	expiresAt := now.Add(ts.validity)

	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID:  userID,
		Expires: unixSeconds(expiresAt),
	}

	token, err := jwt.NewWithClaims(ts.method, claims).SignedString(ts.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return token, expiresAt, nil
}

// Verify returns the user id carried by tokenString. A bad signature, a
// different algorithm, a malformed payload and an expired token all yield
// ok == false; callers cannot tell them apart.
func (ts *TokenService) Verify(tokenString string) (string, bool) {
	claims := &TokenClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{ts.method.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return ts.secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	if claims.UserID == "" || claims.Expires < unixSeconds(ts.now()) {
		return "", false
	}

	return claims.UserID, true
}

// unixSeconds loses precision below the float64 step at current epoch values
// (about 240ns), so checks within that much of the expiry still pass.
func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// ExpiryToUnix renders an expiry the way it appears inside tokens.
func ExpiryToUnix(t time.Time) float64 {
	return unixSeconds(t)
}
