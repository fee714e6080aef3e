package auth

import (
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claim accessors over a verified claim set. Absence or a wrong type is
// reported via ok=false, never an error: it lets the gate tell "token
// invalid" apart from "token valid but issued without required claims".

// UserID returns the userId claim widened to int64. The issuer may encode
// it at any numeric width; only non-numeric content is rejected.
func UserID(claims jwt.MapClaims) (int64, bool) {
	v, ok := claims["userId"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case json.Number:
		id, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return id, true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

// Role returns the role claim. Roles are opaque text; new roles may appear
// without a code change here.
func Role(claims jwt.MapClaims) (string, bool) {
	return stringClaim(claims, "role")
}

// Username returns the subject claim, typically the account email.
func Username(claims jwt.MapClaims) (string, bool) {
	return stringClaim(claims, "sub")
}

func stringClaim(claims jwt.MapClaims, key string) (string, bool) {
	v, ok := claims[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
