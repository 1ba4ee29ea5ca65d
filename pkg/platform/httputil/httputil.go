// Package httputil centralizes JSON response and error envelope writing so
// every service answers with the same shape.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domainerrors"
)

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope. Internal
// and unavailable errors omit the description so no internal detail leaks to
// clients; everything else carries the client-safe message.
func WriteError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	switch code {
	case domainerrors.CodeInternal, domainerrors.CodeUnavailable:
		// no description
	default:
		body["error_description"] = domainerrors.MessageOf(err)
	}
	WriteJSON(w, domainerrors.ToHTTPStatus(code), body)
}
