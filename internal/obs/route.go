package obs

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Audiences split API traffic by the app that sends it.
const (
	AudienceCustomer = "customer"
	AudienceRider    = "rider"
	AudienceAdmin    = "admin"
	AudienceSystem   = "system"
)

// Audience classifies a request path. Public catalog and auth endpoints count as customer traffic.
func Audience(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/v1/rider"):
		return AudienceRider
	case strings.HasPrefix(path, "/api/v1/admin"):
		return AudienceAdmin
	case strings.HasPrefix(path, "/api/"):
		return AudienceCustomer
	default:
		return AudienceSystem
	}
}

// RoutePattern returns the chi pattern that r matched, or "unmatched". Middleware mounted on the
// root router sees the full pattern only after the handler returns.
func RoutePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
