package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Recorder audits mutating requests after they are handled.
type Recorder struct {
	Service *Service
}

// Middleware records every non-GET request routed through it. resourceType names the audited
// resource; the "id" URL parameter, when present, becomes the resource id.
func (rec Recorder) Middleware(resourceType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rec.Service == nil || !rec.Service.Enabled || r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			sw := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			entry := Entry{
				Actor:        ActorFromRequest(r),
				ResourceType: resourceType,
				ResourceID:   chi.URLParam(r, "id"),
				Status:       sw.Status(),
			}
			if err := rec.Service.Record(r.Context(), r, entry); err != nil {
				zerolog.Ctx(r.Context()).Warn().Err(err).Str("resource", resourceType).Msg("audit record")
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Status() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}
