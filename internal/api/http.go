// Package api exposes catalogs, stateless estimates and estimation sessions
// over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bher20/quotemanager/internal/api/swagger"
	"github.com/bher20/quotemanager/internal/catalog"
	"github.com/bher20/quotemanager/internal/metrics"
	"github.com/bher20/quotemanager/internal/notification"
	"github.com/bher20/quotemanager/internal/session"
	"github.com/bher20/quotemanager/internal/storage"
	"github.com/bher20/quotemanager/internal/ui"
)

// Deps are the services the HTTP layer serves. Store and Notifications may be nil.
type Deps struct {
	Catalogs      *catalog.Service
	Sessions      *session.Manager
	Store         storage.Storage
	Notifications *notification.Service
	Logger        *zap.Logger
}

type server struct {
	catalogs *catalog.Service
	sessions *session.Manager
	store    storage.Storage
	notif    *notification.Service
	log      *zap.Logger
}

// NewMux constructs the HTTP mux, wiring in the API, metrics, docs, UI and health endpoints.
func NewMux(d Deps) *http.ServeMux {
	s := &server{
		catalogs: d.Catalogs,
		sessions: d.Sessions,
		store:    d.Store,
		notif:    d.Notifications,
		log:      d.Logger,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.Named("api")

	mux := http.NewServeMux()

	// Metrics endpoint.
	mux.Handle("GET /metrics", promhttp.Handler())

	// Health / readiness / liveness.
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("live"))
	})
	mux.HandleFunc("GET /readyz", s.readyz)

	s.handle(mux, "GET /api/v1/catalogs", s.listCatalogs)
	s.handle(mux, "GET /api/v1/catalogs/{key}", s.getCatalog)
	s.handle(mux, "POST /api/v1/catalogs/refresh", s.refreshCatalogs)
	s.handle(mux, "POST /api/v1/estimate", s.estimate)

	s.handle(mux, "POST /api/v1/sessions", s.createSession)
	s.handle(mux, "GET /api/v1/sessions/{id}", s.getSession)
	s.handle(mux, "DELETE /api/v1/sessions/{id}", s.deleteSession)
	s.handle(mux, "POST /api/v1/sessions/{id}/geographic/{code}", s.toggleGeographic)
	s.handle(mux, "POST /api/v1/sessions/{id}/activities/{activityID}", s.toggleActivity)
	s.handle(mux, "POST /api/v1/sessions/{id}/bundles/{bundleID}", s.toggleBundle)
	s.handle(mux, "PUT /api/v1/sessions/{id}/term", s.setTerm)
	s.handle(mux, "POST /api/v1/sessions/{id}/review", s.review)
	s.handle(mux, "POST /api/v1/sessions/{id}/modify", s.modify)
	s.handle(mux, "POST /api/v1/sessions/{id}/submit", s.submit)

	s.handle(mux, "GET /api/v1/submissions", s.listSubmissions)
	s.handle(mux, "GET /api/v1/submissions/{id}", s.getSubmission)

	s.handle(mux, "GET /api/v1/settings/refresh-interval", s.getRefreshInterval)
	s.handle(mux, "PUT /api/v1/settings/refresh-interval", s.putRefreshInterval)
	s.handle(mux, "GET /api/v1/settings/email", s.getEmailConfig)
	s.handle(mux, "PUT /api/v1/settings/email", s.putEmailConfig)
	s.handle(mux, "POST /api/v1/settings/email/test", s.testEmailConfig)

	// API documentation
	mux.Handle("/swagger/", http.StripPrefix("/swagger", swagger.Handler()))

	// Web UI
	mux.Handle("/ui/", http.StripPrefix("/ui/", ui.Handler()))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui/", http.StatusFound)
	})

	return mux
}

// statusRecorder captures the response code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		metrics.ObserveRequest(pattern, rec.status, start)
	})
}

func (s *server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			s.log.Warn("readyz: db ping failed", zap.Error(err))
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
	}
	if len(s.catalogs.List()) == 0 {
		http.Error(w, "no catalogs loaded", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error             string `json:"error"`
	MissingGeographic bool   `json:"missing_geographic,omitempty"`
	MissingActivity   bool   `json:"missing_activity,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeErr maps domain errors to status codes.
func (s *server) writeErr(w http.ResponseWriter, err error) {
	var verr *session.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:             verr.Error(),
			MissingGeographic: verr.MissingGeographic,
			MissingActivity:   verr.MissingActivity,
		})
	case errors.Is(err, session.ErrInvalidTerm):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, session.ErrNotEditing), errors.Is(err, session.ErrNotReviewing):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrUnknownBundle),
		errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
