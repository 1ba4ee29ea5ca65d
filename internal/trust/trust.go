// Package trust establishes the request principal inside internal services.
//
// Two deployment modes are supported. In header mode the service trusts the
// propagation headers verbatim, assuming the gateway is the only network
// entry point. In verify mode the service re-validates the bearer token
// itself, tolerating gateway bypass in a flat network. Both produce the same
// principal in the request context.
package trust

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/config"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/platform/metrics"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/token"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domain"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domainerrors"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/platform/httputil"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/requestcontext"
)

// ErrIdentityMissing marks a protected request that reached an internal
// service without gateway identity headers.
var ErrIdentityMissing = errors.New("identity missing")

// Filter builds the per-request principal.
type Filter struct {
	mode    config.TrustMode
	tokens  *token.Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewFilter builds a trust filter. tokens may be nil in header mode.
func NewFilter(mode config.TrustMode, tokens *token.Service, logger *slog.Logger, m *metrics.Metrics) *Filter {
	return &Filter{mode: mode, tokens: tokens, logger: logger, metrics: m}
}

// Middleware rejects requests without a valid identity and stores the
// principal in the request context for business-logic authorization checks.
func (f *Filter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			principal domain.Principal
			err       error
		)
		if f.mode == config.TrustModeVerify {
			principal, err = f.fromBearerToken(r)
		} else {
			principal, err = f.fromHeaders(r)
		}
		if err != nil {
			f.metrics.IncAuthRejection(reason(err))
			f.logger.WarnContext(r.Context(), "request rejected by trust filter",
				"path", r.URL.Path,
				"mode", string(f.mode),
				"reason", reason(err),
			)
			// Uniform rejection: same envelope no matter which check failed.
			httputil.WriteError(w, domainerrors.New(domainerrors.CodeUnauthorized, "unauthenticated"))
			return
		}

		ctx := requestcontext.WithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// fromHeaders trusts the gateway propagation headers (mode A). Absence of the
// headers on a protected route is itself an authentication failure.
func (f *Filter) fromHeaders(r *http.Request) (domain.Principal, error) {
	rawID := r.Header.Get(domain.HeaderUserID)
	rawRole := r.Header.Get(domain.HeaderUserRole)
	if rawID == "" || rawRole == "" {
		return domain.Principal{}, ErrIdentityMissing
	}

	subjectID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return domain.Principal{}, ErrIdentityMissing
	}
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return domain.Principal{}, ErrIdentityMissing
	}

	return domain.Principal{
		SubjectID: subjectID,
		Email:     r.Header.Get(domain.HeaderUserEmail),
		Role:      role,
	}, nil
}

// fromBearerToken re-verifies the token independently (mode B), sharing the
// gateway's error taxonomy.
func (f *Filter) fromBearerToken(r *http.Request) (domain.Principal, error) {
	bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return domain.Principal{}, ErrIdentityMissing
	}
	return f.tokens.Verify(bearer)
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrIdentityMissing):
		return "identity_missing"
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrSignatureInvalid):
		return "signature_invalid"
	default:
		return "malformed"
	}
}
