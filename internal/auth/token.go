package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for malformed, forged or expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

const issuer = "movie-catalog"

// TokenManager issues and verifies access tokens.
type TokenManager interface {
	Generate(userID string) (string, error)
	Validate(tokenString string) (*Claims, error)
}

// Claims is the payload of an access token. The subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the id of the authenticated user.
func (c *Claims) UserID() string {
	return c.Subject
}

type jwtManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewTokenManager creates an HS256 token manager.
func NewTokenManager(secretKey string, tokenDuration time.Duration) (TokenManager, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if tokenDuration <= 0 {
		return nil, fmt.Errorf("token duration must be positive, got %s", tokenDuration)
	}
	return &jwtManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}, nil
}

// Generate signs a token for the user.
func (m *jwtManager) Generate(userID string) (string, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature and expiry and returns the claims.
func (m *jwtManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
