package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLen is the minimum length of the shared HMAC secret. The token
// issuer (the user service) signs with the same secret, exchanged
// out-of-band.
const MinSecretLen = 32

// ErrInvalidToken indicates the token failed verification: bad signature,
// unexpected algorithm, malformed payload or expired.
var ErrInvalidToken = errors.New("invalid token")

// Verifier checks HS256 bearer tokens against the shared secret.
// Safe for concurrent use; the secret is immutable after construction.
type Verifier struct {
	secret []byte
}

// NewVerifier validates the secret once at configuration time so that no
// per-request path ever sees a weak or missing secret.
func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("auth secret must be at least %d characters", MinSecretLen)
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// ParseAndValidate verifies the token signature and expiry in a single call
// and returns the decoded claim set. Every failure mode collapses to
// ErrInvalidToken: callers treat the request as anonymous and never see an
// expired-but-otherwise-valid claim set.
func (v *Verifier) ParseAndValidate(token string) (jwt.MapClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateToken signs a token carrying the claim schema the user service
// issues: sub, userId, role, iat, exp. Used by tests and the mktoken tool;
// the production issuer is external.
func (v *Verifier) GenerateToken(userID int64, role, username string, ttl time.Duration) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", errors.New("username is required")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be greater than zero")
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":    username,
		"userId": userID,
		"role":   role,
		"iat":    jwt.NewNumericDate(now),
		"exp":    jwt.NewNumericDate(now.Add(ttl)),
		"jti":    uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
