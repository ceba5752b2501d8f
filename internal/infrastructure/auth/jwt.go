package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionIssuer = "ezpsa"

// SessionClaims identify the signed-in user. Subject is the identity
// provider's subject and ID is the session id.
type SessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies session tokens carried in the session cookie.
type JWTService struct {
	secret []byte
	expiry time.Duration
	clock  quartz.Clock
}

func NewJWTService(secret string, sessionExpHours int, clock quartz.Clock) *JWTService {
	if sessionExpHours <= 0 {
		sessionExpHours = 12
	}
	return &JWTService{
		secret: []byte(secret),
		expiry: time.Duration(sessionExpHours) * time.Hour,
		clock:  clock,
	}
}

// Expiry is the lifetime of a session token.
func (s *JWTService) Expiry() time.Duration {
	return s.expiry
}

// Generate issues a session token for user.
func (s *JWTService) Generate(user *UserInfo) (string, error) {
	if user == nil || user.Subject == "" {
		return "", errors.New("user subject is required")
	}

	now := s.clock.Now().UTC()
	claims := &SessionClaims{
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   user.Subject,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// Verify parses and validates a session token.
func (s *JWTService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithTimeFunc(func() time.Time { return s.clock.Now() }),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
