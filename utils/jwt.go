package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"snapnet/config"
)

// Claims defines the JWT claims carried by a session token.
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenTTL returns the configured session lifetime.
func TokenTTL() time.Duration {
	return time.Duration(config.Get().TokenTTLMinutes) * time.Minute
}

// GenerateToken issues a signed session token for the given user identity.
func GenerateToken(userID uint, duration time.Duration) (string, error) {
	cfg := config.Get()

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a session token and returns its claims. It fails on
// a bad signature, an unexpected algorithm, a malformed payload, or expiry.
func ParseToken(tokenStr string) (*Claims, error) {
	cfg := config.Get()
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
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
