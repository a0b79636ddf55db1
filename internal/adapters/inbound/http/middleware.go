package httpin

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/core/identity"
	"catering_ops/internal/ports/inbound"
)

const osPrefix = "/os/"

// CanonicalPath rewrites /os/<human number>/... to /os/<surrogate key>/...
// before routing, so handlers and logs see one form. A number that does not
// resolve is left in place and the handler answers 404; a lookup failure
// stops the request with 503.
func CanonicalPath(resolver inbound.IdentifierResolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			segment, rest, ok := splitOSPath(r.URL.Path)
			if !ok || identity.IsSurrogateShape(segment) {
				next.ServeHTTP(w, r)
				return
			}

			id, err := resolver.Resolve(r.Context(), segment)
			if err != nil {
				log.ErrorContext(r.Context(), "identifier resolution failed",
					slog.String("identifier", segment),
					slog.String("error", err.Error()),
				)
				writeErrorMessage(w, http.StatusServiceUnavailable, "backend unavailable")
				return
			}
			if id == segment {
				next.ServeHTTP(w, r)
				return
			}

			r2 := r.Clone(r.Context())
			r2.URL.Path = osPrefix + id + rest
			r2.URL.RawPath = ""
			next.ServeHTTP(w, r2)
		})
	}
}

// splitOSPath returns the identifier segment of /os/{id}... and the rest of
// the path including its leading slash.
func splitOSPath(path string) (segment, rest string, ok bool) {
	tail, found := strings.CutPrefix(path, osPrefix)
	if !found || tail == "" {
		return "", "", false
	}
	segment, rest, _ = strings.Cut(tail, "/")
	if segment == "" {
		return "", "", false
	}
	if rest != "" || strings.HasSuffix(tail, "/") {
		rest = "/" + rest
	}
	return segment, rest, true
}

func actorFrom(r *http.Request) domain.Actor {
	return domain.Actor{
		ID:    strings.TrimSpace(r.Header.Get("X-User-Id")),
		Email: strings.TrimSpace(r.Header.Get("X-User-Email")),
	}.OrSystem()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE responses streaming through the recorder.
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

func RequestLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.InfoContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
