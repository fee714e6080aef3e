package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/udaysingh21/NGO-Postings-Service/internal/auth"
	"github.com/udaysingh21/NGO-Postings-Service/internal/obs"
	"github.com/udaysingh21/NGO-Postings-Service/internal/posting"
)

// ReadyProbe reports readiness, pinging the database when one is wired.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options tune transport behavior; zero values fall back to defaults.
type Options struct {
	AllowAnonymousRead bool
	RateBurst          int
	RatePerSecond      int
	MaxBodyBytes       int64
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	verifier   *auth.Verifier
	postings   *posting.Service
	readyProbe ReadyProbe
	version    string

	allowAnonymousRead bool
	rateBurst          int
	ratePerSec         int
	maxBodyBytes       int64
}

func New(rp ReadyProbe, version string, verifier *auth.Verifier, postings *posting.Service, opts Options) *API {
	a := &API{
		mux:                http.NewServeMux(),
		verifier:           verifier,
		postings:           postings,
		readyProbe:         rp,
		version:            version,
		allowAnonymousRead: opts.AllowAnonymousRead,
		rateBurst:          opts.RateBurst,
		ratePerSec:         opts.RatePerSecond,
		maxBodyBytes:       opts.MaxBodyBytes,
	}
	if a.rateBurst <= 0 {
		a.rateBurst = 50
	}
	if a.ratePerSec <= 0 {
		a.ratePerSec = 25
	}
	if a.maxBodyBytes <= 0 {
		a.maxBodyBytes = 1 << 20
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/api/v1/postings", a.handlePostingsCollection)
	a.mux.HandleFunc("/api/v1/postings/", a.handlePostingResource)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the mux wrapped in the full middleware stack. The
// authentication gate sits just outside request logging so completed
// requests are logged with the resolved user.
func (a *API) Handler() http.Handler {
	h := LoggingJSON(a.mux)
	h = a.withAuth(h)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- health handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "ngo-postings-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "ngo-postings-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders the denial envelope: timestamp, status classification
// and a human-readable message, plus the request correlation id.
func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"status":    code,
		"error":     http.StatusText(code),
		"message":   msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
