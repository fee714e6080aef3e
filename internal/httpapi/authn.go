package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/udaysingh21/NGO-Postings-Service/internal/auth"
	"github.com/udaysingh21/NGO-Postings-Service/internal/obs"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// withAuth is the authentication gate. It annotates the request with an
// Identity when a valid token with complete claims is presented, and
// otherwise lets the request continue anonymous — it never rejects by
// itself. The decision to deny lives with each operation.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(authHeader)
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			// Malformed header is treated the same as no header.
			next.ServeHTTP(w, r)
			return
		}

		claims, err := a.verifier.ParseAndValidate(token)
		if err != nil {
			obs.IncAuthFailure("invalid_token")
			obs.Event("warn", "token_rejected", map[string]any{
				"request_id": RequestIDFromContext(r.Context()),
				"path":       r.URL.Path,
			})
			next.ServeHTTP(w, r)
			return
		}

		userID, okID := auth.UserID(claims)
		role, okRole := auth.Role(claims)
		username, okName := auth.Username(claims)
		if !okID || !okRole || !okName {
			// A verified token without the required claims means the
			// issuing user service broke its contract.
			obs.IncAuthFailure("incomplete_claims")
			obs.Event("error", "token_claims_incomplete", map[string]any{
				"request_id":   RequestIDFromContext(r.Context()),
				"path":         r.URL.Path,
				"has_user_id":  okID,
				"has_role":     okRole,
				"has_username": okName,
			})
			next.ServeHTTP(w, r)
			return
		}

		ident := auth.Identity{UserID: userID, Role: role, Username: username}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), ident)))
	})
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

// requireIdentity resolves the identity attached by the gate; absence is
// the unauthenticated signal.
func requireIdentity(r *http.Request) (auth.Identity, error) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return auth.Identity{}, auth.ErrUnauthenticated
	}
	return ident, nil
}

// authorizeRead gates the read-only endpoints. With anonymous reads
// enabled they are open to everyone; otherwise any authenticated identity
// may read.
func (a *API) authorizeRead(w http.ResponseWriter, r *http.Request) bool {
	if a.allowAnonymousRead {
		return true
	}
	ident, err := requireIdentity(r)
	if err != nil {
		unauthorized(w, r)
		return false
	}
	if !auth.CanRead(ident) {
		writeError(w, r, http.StatusForbidden, "you are not allowed to view postings")
		return false
	}
	return true
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="ngo-postings"`)
	writeError(w, r, http.StatusUnauthorized, "authentication required")
}
