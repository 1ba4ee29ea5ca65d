package gateway

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/token"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domain"
)

func newTestFilter(t *testing.T, ttl time.Duration) (*Filter, *token.Service) {
	t.Helper()
	tokens := token.NewService("gateway-test-secret", ttl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFilter(tokens, []string{"/api/auth/register", "/api/auth/login"}, logger, nil), tokens
}

// capture records the headers the next hop would see.
func capture(seen *http.Header) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	})
}

func TestPublicPathBypassesAuth(t *testing.T) {
	filter, _ := newTestFilter(t, time.Hour)

	var seen http.Header
	handler := filter.Middleware(capture(&seen))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
}

func TestProtectedPathRejectsMissingHeader(t *testing.T) {
	filter, _ := newTestFilter(t, time.Hour)

	handler := filter.Middleware(capture(new(http.Header)))

	req := httptest.NewRequest(http.MethodGet, "/api/projects/1", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedPathRejectsNonBearerHeader(t *testing.T) {
	filter, _ := newTestFilter(t, time.Hour)

	handler := filter.Middleware(capture(new(http.Header)))

	req := httptest.NewRequest(http.MethodGet, "/api/projects/1", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticatedRequestGetsPropagationHeaders(t *testing.T) {
	filter, tokens := newTestFilter(t, time.Hour)

	signed, err := tokens.Issue(42, "member@example.com", domain.RoleMember)
	require.NoError(t, err)

	var seen http.Header
	handler := filter.Middleware(capture(&seen))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/my", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "42", seen.Get(domain.HeaderUserID))
	require.Equal(t, "MEMBER", seen.Get(domain.HeaderUserRole))
	require.Equal(t, "member@example.com", seen.Get(domain.HeaderUserEmail))
}

func TestSpoofedIdentityHeadersAreOverwritten(t *testing.T) {
	filter, tokens := newTestFilter(t, time.Hour)

	signed, err := tokens.Issue(42, "member@example.com", domain.RoleMember)
	require.NoError(t, err)

	var seen http.Header
	handler := filter.Middleware(capture(&seen))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/my", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	req.Header.Set(domain.HeaderUserID, "1")
	req.Header.Set(domain.HeaderUserRole, "ADMIN")
	req.Header.Set(domain.HeaderUserEmail, "attacker@example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "42", seen.Get(domain.HeaderUserID))
	require.Equal(t, "MEMBER", seen.Get(domain.HeaderUserRole))
	require.Equal(t, "member@example.com", seen.Get(domain.HeaderUserEmail))
}

func TestSpoofedHeadersStrippedOnPublicPath(t *testing.T) {
	filter, _ := newTestFilter(t, time.Hour)

	var seen http.Header
	handler := filter.Middleware(capture(&seen))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)
	req.Header.Set(domain.HeaderUserID, "1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, seen.Get(domain.HeaderUserID))
}

func TestTamperedTokenRejected(t *testing.T) {
	filter, tokens := newTestFilter(t, time.Hour)

	signed, err := tokens.Issue(42, "member@example.com", domain.RoleMember)
	require.NoError(t, err)

	tampered := signed[:len(signed)-1]
	if signed[len(signed)-1] == 'A' {
		tampered += "B"
	} else {
		tampered += "A"
	}

	handler := filter.Middleware(capture(new(http.Header)))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/my", nil)
	req.Header.Set("Authorization", "Bearer "+tampered)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	filter, tokens := newTestFilter(t, -time.Minute)

	signed, err := tokens.Issue(42, "member@example.com", domain.RoleMember)
	require.NoError(t, err)

	handler := filter.Middleware(capture(new(http.Header)))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/my", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
