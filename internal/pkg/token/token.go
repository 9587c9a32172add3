package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims carried by a session token. Authorities snapshot the subject's
// role-derived permissions at issuance time.
type Claims struct {
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
	jwt.RegisteredClaims
}

// Service issues and validates signed session tokens. The signing secret is
// loaded once at startup and never rotated mid-process.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue produces a signed token embedding the subject, its authority set,
// issued-at and expiry = issued-at + TTL.
func (s *Service) Issue(username string, authorities []string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username:    username,
		Authorities: authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Validate verifies signature and expiry. Malformed encoding, signature
// mismatch and elapsed expiry all come back as error values, never panics.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ParseBearer extracts the token from an "Authorization: Bearer <token>"
// header value. A missing or malformed header is a normal unauthenticated
// state, reported as ok=false rather than an error.
func ParseBearer(headerValue string) (string, bool) {
	fields := strings.Fields(headerValue)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", false
	}
	return fields[1], true
}
