// Package token issues and verifies the signed identity tokens that carry
// user claims across service boundaries.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domain"
)

// Verification failures. Verify returns exactly one of these; callers match
// with errors.Is and must not branch on error text.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
)

// Claims is the JWT payload for an identity token.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies identity tokens with a single shared HS256
// secret. The secret is loaded once at startup and treated as read-only, so
// one Service is safe for concurrent use by every request worker.
type Service struct {
	signingKey []byte
	ttl        time.Duration
}

// NewService builds a token service. ttl bounds the lifetime of issued
// tokens; expiry is the only way a token dies (no revocation list).
func NewService(signingKey string, ttl time.Duration) *Service {
	return &Service{signingKey: []byte(signingKey), ttl: ttl}
}

// Issue signs a token for the given subject. Timestamps have second
// granularity per the JWT numeric date encoding.
func (s *Service) Issue(subjectID int64, email string, role domain.Role) (string, error) {
	now := time.Now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: subjectID,
		Email:  email,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token and returns the principal it encodes.
// No clock-skew leeway is applied; a token is expired the second after exp.
func (s *Service) Verify(tokenString string) (domain.Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.Principal{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domain.Principal{}, ErrSignatureInvalid
		default:
			return domain.Principal{}, ErrMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Principal{}, ErrMalformed
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return domain.Principal{
		SubjectID: claims.UserID,
		Email:     claims.Email,
		Role:      role,
	}, nil
}
