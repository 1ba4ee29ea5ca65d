package gateway

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/requestcontext"
)

// Route maps a path prefix onto an upstream service.
type Route struct {
	Prefix string
	Target *url.URL
}

// Proxy forwards requests to internal services by longest path-prefix match.
// Service discovery is deliberately static: the route table comes from config.
type Proxy struct {
	routes []route
	logger *slog.Logger
}

type route struct {
	prefix  string
	forward *httputil.ReverseProxy
}

// NewProxy builds the reverse proxy from the route table.
func NewProxy(routes []Route, logger *slog.Logger) *Proxy {
	p := &Proxy{logger: logger}
	for _, r := range routes {
		forward := httputil.NewSingleHostReverseProxy(r.Target)
		forward.ErrorHandler = func(w http.ResponseWriter, req *http.Request, err error) {
			logger.ErrorContext(req.Context(), "upstream unreachable",
				"path", req.URL.Path,
				"error", err,
				"request_id", requestcontext.RequestID(req.Context()),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"unavailable"}`))
		}
		p.routes = append(p.routes, route{prefix: r.Prefix, forward: forward})
	}
	// Longest prefix first so /api/auth wins over /api.
	sort.Slice(p.routes, func(i, j int) bool {
		return len(p.routes[i].prefix) > len(p.routes[j].prefix)
	})
	return p
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, rt := range p.routes {
		if strings.HasPrefix(r.URL.Path, rt.prefix) {
			rt.forward.ServeHTTP(w, r)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"error":"not_found"}`))
}
