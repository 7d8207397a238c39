package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/safar/go-storefront/internal/simulate"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	Email    string `json:"email"`
	Provider string `json:"provider,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs HS256 session tokens. The token is opaque to every
// other package; only the authenticated flag gates access.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  simulate.Clock
}

func NewTokenIssuer(secret string, ttl time.Duration, clock simulate.Clock) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, clock: clock}
}

func (t *TokenIssuer) Issue(email, provider string) (string, error) {
	now := t.clock.Now()
	claims := Claims{
		Email:    email,
		Provider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (t *TokenIssuer) Parse(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.clock.Now))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &claims, nil
}
