package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"
	"github.com/wadjakorntonsri/shrink-ray/pkg/ports"
)

type contextKey struct{}

var sessionKey = contextKey{}

type Middleware struct {
	sessions ports.SessionStore
	log      *zerolog.Logger
}

func NewMiddleware(sessions ports.SessionStore, log *zerolog.Logger) *Middleware {
	return &Middleware{sessions: sessions, log: log}
}

// SessionMiddleware attaches the caller's session to the request context.
// Missing or unreadable sessions become the anonymous session.
func (m *Middleware) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.sessions.Load(r)
		if err != nil {
			m.log.Debug().Err(err).Str("path", r.URL.Path).Msg("discarding session")
			session = domain.Anonymous()
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthMiddleware rejects anonymous callers before the handler reads the body.
func (m *Middleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFrom(r.Context()).Authenticated() {
			writeError(m.log, w, r, domain.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFrom returns the session stored by SessionMiddleware.
func SessionFrom(ctx context.Context) domain.Session {
	if s, ok := ctx.Value(sessionKey).(domain.Session); ok {
		return s
	}
	return domain.Anonymous()
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.statusCode == 0 {
		r.statusCode = http.StatusOK
	}
	size, err := r.ResponseWriter.Write(b)
	r.size += size
	return size, err
}

func (m *Middleware) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &responseRecorder{ResponseWriter: w}

		next.ServeHTTP(recorder, r)

		if recorder.statusCode == 0 {
			recorder.statusCode = http.StatusOK
		}
		duration := time.Since(start)

		msg := "request completed"
		entry := m.log.Info()
		switch {
		case recorder.statusCode >= 500:
			msg = "server error"
			entry = m.log.Error().Str("error_type", "server_error")
		case recorder.statusCode >= 400:
			msg = "client error"
			entry = entry.Str("error_type", "client_error")
		}

		entry.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.statusCode).
			Dur("duration_ms", duration/time.Millisecond).
			Int("bytes", recorder.size).
			Str("ip", r.RemoteAddr).
			Msg(msg)
	})
}
