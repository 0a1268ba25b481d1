package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSecretTooShort = errors.New("token secret must be at least 32 bytes")
)

// TokenExpiry is the fixed lifetime of a session token. Expiry is the only
// invalidation mechanism; there is no server-side revocation list.
const TokenExpiry = 7 * 24 * time.Hour

// Claims represents session token claims
type Claims struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed session tokens
type TokenService struct {
	secretKey []byte
	expiry    time.Duration
}

// NewTokenService creates a new token service. Secrets shorter than 32 bytes
// are a configuration error and are rejected outright.
func NewTokenService(secretKey string) (*TokenService, error) {
	if len(secretKey) < 32 {
		return nil, ErrSecretTooShort
	}
	return &TokenService{
		secretKey: []byte(secretKey),
		expiry:    TokenExpiry,
	}, nil
}

// Issue creates a signed token for the given user identity
func (s *TokenService) Issue(userID, email, fullName string) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.expiry)

	claims := Claims{
		UserID:   userID,
		Email:    email,
		FullName: fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// Verify validates a token and returns its claims. It returns nil on any
// failure (bad signature, expired, malformed); the cause is never surfaced.
func (s *TokenService) Verify(tokenString string) *Claims {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil
	}

	return claims
}
