package trust

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/config"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/token"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domain"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// principalCapture records the principal business logic would see.
func principalCapture(got *domain.Principal, found *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := requestcontext.Principal(r.Context())
		*got = p
		*found = ok
		w.WriteHeader(http.StatusOK)
	})
}

func TestHeaderModeBuildsPrincipal(t *testing.T) {
	filter := NewFilter(config.TrustModeHeaders, nil, discardLogger(), nil)

	var (
		got   domain.Principal
		found bool
	)
	handler := filter.Middleware(principalCapture(&got, &found))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/my", nil)
	req.Header.Set(domain.HeaderUserID, "42")
	req.Header.Set(domain.HeaderUserRole, "MEMBER")
	req.Header.Set(domain.HeaderUserEmail, "member@example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, found)
	require.Equal(t, domain.Principal{
		SubjectID: 42,
		Email:     "member@example.com",
		Role:      domain.RoleMember,
	}, got)
}

func TestHeaderModeRejectsMissingIdentity(t *testing.T) {
	filter := NewFilter(config.TrustModeHeaders, nil, discardLogger(), nil)

	handler := filter.Middleware(principalCapture(new(domain.Principal), new(bool)))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/my", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHeaderModeRejectsGarbageHeaders(t *testing.T) {
	filter := NewFilter(config.TrustModeHeaders, nil, discardLogger(), nil)

	handler := filter.Middleware(principalCapture(new(domain.Principal), new(bool)))

	for name, headers := range map[string]map[string]string{
		"non-numeric id": {domain.HeaderUserID: "abc", domain.HeaderUserRole: "MEMBER"},
		"unknown role":   {domain.HeaderUserID: "42", domain.HeaderUserRole: "ROOT"},
		"role only":      {domain.HeaderUserRole: "MEMBER"},
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks/my", nil)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}

func TestVerifyModeAcceptsValidToken(t *testing.T) {
	tokens := token.NewService("trust-test-secret", time.Hour)
	filter := NewFilter(config.TrustModeVerify, tokens, discardLogger(), nil)

	signed, err := tokens.Issue(7, "admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	var (
		got   domain.Principal
		found bool
	)
	handler := filter.Middleware(principalCapture(&got, &found))

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, found)
	require.Equal(t, int64(7), got.SubjectID)
	require.Equal(t, domain.RoleAdmin, got.Role)
}

func TestVerifyModeIgnoresHeadersWithoutToken(t *testing.T) {
	tokens := token.NewService("trust-test-secret", time.Hour)
	filter := NewFilter(config.TrustModeVerify, tokens, discardLogger(), nil)

	handler := filter.Middleware(principalCapture(new(domain.Principal), new(bool)))

	// Headers alone are not enough in verify mode; the token is the source
	// of truth.
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set(domain.HeaderUserID, "42")
	req.Header.Set(domain.HeaderUserRole, "ADMIN")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyModeRejectsExpiredToken(t *testing.T) {
	tokens := token.NewService("trust-test-secret", -time.Minute)
	filter := NewFilter(config.TrustModeVerify, tokens, discardLogger(), nil)

	signed, err := tokens.Issue(7, "admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	handler := filter.Middleware(principalCapture(new(domain.Principal), new(bool)))

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
