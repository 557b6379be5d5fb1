// Package web serves the EventGo pages plus the export, health and
// metrics endpoints.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"eventgo/internal/capture"
	"eventgo/internal/config"
	"eventgo/internal/i18n"
	appLog "eventgo/internal/log"
	"eventgo/internal/metrics"
	"eventgo/internal/probe"
	"eventgo/internal/router"
	"eventgo/internal/service"
	"eventgo/internal/ui"
)

// StatusSource exposes the last backend probe result.
type StatusSource interface {
	Status() probe.Status
}

// Deps are the collaborators a Server needs. Metrics, Probe and Renderer
// are optional.
type Deps struct {
	Config   *config.Config
	Services *service.Services
	Router   *router.Router
	Views    *ui.Views
	I18n     *i18n.Bundle
	Metrics  *metrics.Collector
	Probe    StatusSource
	Renderer capture.Renderer
}

// Server provides the HTTP surface of the application.
type Server struct {
	cfg      *config.Config
	svc      *service.Services
	router   *router.Router
	views    *ui.Views
	bundle   *i18n.Bundle
	metrics  *metrics.Collector
	probe    StatusSource
	renderer capture.Renderer

	loc      *time.Location
	pages    map[router.Page]pageHandler
	limiter  *rateLimiter
	validate *validator.Validate
	now      func() time.Time
}

// NewServer constructs a new Server.
func NewServer(d Deps) (*Server, error) {
	switch {
	case d.Config == nil:
		return nil, errors.New("web: nil config")
	case d.Services == nil:
		return nil, errors.New("web: nil services")
	case d.Router == nil:
		return nil, errors.New("web: nil router")
	case d.Views == nil:
		return nil, errors.New("web: nil views")
	case d.I18n == nil:
		return nil, errors.New("web: nil i18n bundle")
	}

	s := &Server{
		cfg:      d.Config,
		svc:      d.Services,
		router:   d.Router,
		views:    d.Views,
		bundle:   d.I18n,
		metrics:  d.Metrics,
		probe:    d.Probe,
		renderer: d.Renderer,
		loc:      resolveLocationOrLocal(d.Config.Timezone),
		limiter:  newRateLimiter(d.Config.FormRateLimit.RPS, d.Config.FormRateLimit.Burst),
		validate: newValidator(),
		now:      time.Now,
	}
	s.pages = s.pageHandlers()
	return s, nil
}

// Handles reports whether the server has a handler for page.
func (s *Server) Handles(page router.Page) bool {
	_, ok := s.pages[page]
	return ok
}

// Close releases background resources.
func (s *Server) Close() {
	s.limiter.close()
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(appLog.Logger()))
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		r.Use(basicAuth(s.cfg.BasicAuth.Username, s.cfg.BasicAuth.Password))
	}

	r.Get("/health", s.handleHealth)
	r.Get("/api/status", s.handleStatus)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(ui.Static()))))

	r.Get("/events/calendar.ics", s.handleCalendar)
	r.Get("/quotes/detail/{id}/pdf", s.handleQuotePDF)

	r.Get("/*", s.handlePage)
	r.Post("/*", s.handlePage)
	return r
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg.BasicAuth == nil {
		return false
	}
	// Empty credentials count as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

type healthResponse struct {
	Status  string        `json:"status"`
	Backend *probe.Status `json:"backend,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s.probe != nil {
		st := s.probe.Status()
		if st.Checks > 0 {
			resp.Backend = &st
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	if s.probe == nil {
		writeError(w, http.StatusServiceUnavailable, "backend probe disabled")
		return
	}
	writeJSON(w, http.StatusOK, s.probe.Status())
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
