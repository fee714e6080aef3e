package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                                    "/",
		"/metrics":                            "/metrics",
		"/healthz":                            "/healthz",
		"/api/v1/postings":                    "/api/v1/postings",
		"/api/v1/postings/17":                 "/api/v1/postings/:id",
		"/api/v1/postings/17?x=1":             "/api/v1/postings/:id",
		"/api/v1/postings/ngo/3":              "/api/v1/postings/ngo/:id",
		"/api/v1/postings/domain/Education":   "/api/v1/postings/domain/:domain",
		"/api/v1/postings/city/Pune":          "/api/v1/postings/city/:city",
		"/api/v1/postings/search":             "/api/v1/postings/search",
		"/api/v1/postings/search?q=cleanup":   "/api/v1/postings/search",
		"/api/v1/postings/upcoming":           "/api/v1/postings/upcoming",
		"/api/v1/postings/17/extra":           "/api/v1/postings/17/extra",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
