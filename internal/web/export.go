package web

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"eventgo/internal/capture"
	"eventgo/internal/ics"
	appLog "eventgo/internal/log"
	"eventgo/internal/model"
	"eventgo/internal/service"
)

// handleCalendar serves the event list as an iCalendar feed.
//
// GET /events/calendar.ics?status=published
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := r.URL.Query().Get("status")

	var (
		events []model.Event
		err    error
	)
	if status != "" {
		events, err = s.svc.Events.FilterByStatus(ctx, status)
	} else {
		events, err = s.svc.Events.List(ctx)
	}
	if err != nil {
		err = service.Normalize(err)
		appLog.Error("calendar export failed", err, "status", status)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	tag := s.bundle.Match(r.Header.Get("Accept-Language"))
	body := ics.Export(events, ics.ExportOptions{
		Name:      s.bundle.T(tag, "app.name"),
		Location:  s.loc,
		PublicURL: s.cfg.PublicURL,
		Now:       s.now(),
	})

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="eventgo.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// handleQuotePDF prints the quote detail page through the headless renderer.
func (s *Server) handleQuotePDF(w http.ResponseWriter, r *http.Request) {
	if s.renderer == nil {
		writeError(w, http.StatusServiceUnavailable, "pdf rendering disabled")
		return
	}
	id := pathParam(r, "id")

	if _, err := s.svc.Quotes.Get(r.Context(), id); err != nil {
		err = service.Normalize(err)
		status := http.StatusBadGateway
		if service.IsNotFound(err) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}

	headers := map[string]string{}
	if al := r.Header.Get("Accept-Language"); al != "" {
		headers["Accept-Language"] = al
	}
	if s.basicAuthEnabled() {
		creds := s.cfg.BasicAuth.Username + ":" + s.cfg.BasicAuth.Password
		headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
	}

	start := time.Now()
	pdf, err := s.renderer.RenderPDF(r.Context(), capture.PDFOptions{
		URL:     s.quotePrintURL(id),
		Headers: headers,
	})
	if err != nil {
		appLog.Error("quote pdf render failed", err, "quote_id", id)
		writeError(w, http.StatusBadGateway, "failed to render pdf")
		return
	}
	appLog.Debug("quote pdf rendered", "quote_id", id, "bytes", len(pdf), "took", time.Since(start))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="quote-`+sanitizeFilename(id)+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// pathParam returns a decoded chi URL parameter. chi matches against RawPath
// when the request has one, which leaves the parameter escaped.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if dec, err := url.PathUnescape(v); err == nil {
		return dec
	}
	return v
}

func (s *Server) quotePrintURL(id string) string {
	return strings.TrimRight(s.cfg.PublicURL, "/") + "/quotes/detail/" + url.PathEscape(id) + "?print=1"
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
