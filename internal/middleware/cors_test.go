package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsGet(t *testing.T, allowed []string, origin string) *httptest.ResponseRecorder {
	t.Helper()
	handler := CORS(allowed)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	req.Header.Set("Origin", origin)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORSExplicitOrigin(t *testing.T) {
	rec := corsGet(t, []string{"https://app.example.com"}, "https://app.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("allow-origin: got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("allow-credentials: got %q, want true for explicit origin", got)
	}
}

func TestCORSRejectsUnlistedOrigin(t *testing.T) {
	rec := corsGet(t, []string{"https://app.example.com"}, "https://evil.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow-origin: got %q, want unset for unlisted origin", got)
	}
}

func TestCORSWildcardWithholdsCredentials(t *testing.T) {
	rec := corsGet(t, []string{"*"}, "https://anywhere.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example.com" {
		t.Errorf("allow-origin: got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("allow-credentials: got %q, want unset for wildcard", got)
	}
}
