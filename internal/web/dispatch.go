package web

import (
	"bytes"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"

	appLog "eventgo/internal/log"
	"eventgo/internal/router"
	"eventgo/internal/service"
	"eventgo/internal/ui"
)

// pageFunc fills p.data for rendering or sets p.redirect.
type pageFunc func(p *pageRequest)

// pageHandler serves one routed page. A nil post means the page has no form.
type pageHandler struct {
	get  pageFunc
	post pageFunc
}

// pageRequest is the per-request state handed to page functions.
type pageRequest struct {
	w     http.ResponseWriter
	r     *http.Request
	match *router.Match
	data  *ui.PageData
	tag   language.Tag

	status   int
	redirect string
}

func (p *pageRequest) param(name string) string { return p.match.Params[name] }

// fail shows a normalized service error. Missing records answer 404, other
// backend failures 502.
func (p *pageRequest) fail(err error) {
	err = service.Normalize(err)
	p.data.Fail(err.Error())
	if service.IsNotFound(err) {
		p.status = http.StatusNotFound
		return
	}
	p.status = http.StatusBadGateway
}

// invalid re-renders the form with translated field messages.
func (p *pageRequest) invalid(errs fieldErrors) {
	for field, key := range errs {
		p.data.Errors[field] = p.data.T(key)
	}
	p.data.Fail(p.data.T("error.validation"))
	p.status = http.StatusBadRequest
}

func (p *pageRequest) seeOther(path string) { p.redirect = path }

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

	// The router decodes segments itself, so it gets the escaped form.
	m, err := s.router.Resolve(r.URL.EscapedPath())
	if err != nil {
		appLog.Error("route resolution failed", err, "path", r.URL.EscapedPath())
		http.Error(ww, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	page := m.Route.Page
	defer func() {
		if s.metrics != nil {
			s.metrics.ObservePage(r.Method, string(page), ww.Status(), time.Since(start))
		}
	}()

	if m.RedirectedFrom != "" {
		target := m.Path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(ww, r, target, http.StatusFound)
		return
	}

	h, ok := s.pages[page]
	if !ok {
		appLog.Error("no handler for page", nil, "page", string(page))
		http.Error(ww, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	fn := h.get
	if r.Method == http.MethodPost && page != router.PageNotFound {
		if h.post == nil {
			ww.Header().Set("Allow", http.MethodGet)
			http.Error(ww, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		if !s.limiter.allow(clientAddr(r)) {
			http.Error(ww, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		fn = h.post
	}

	tag := s.bundle.Match(r.Header.Get("Accept-Language"))
	p := &pageRequest{
		w:      ww,
		r:      r,
		match:  m,
		data:   ui.NewPageData(m, s.bundle.Printer(tag), tag.String()),
		tag:    tag,
		status: http.StatusOK,
	}
	p.data.Print = r.URL.Query().Get("print") == "1"
	if page == router.PageNotFound {
		p.status = http.StatusNotFound
	}

	fn(p)

	if p.redirect != "" {
		http.Redirect(ww, r, p.redirect, http.StatusSeeOther)
		return
	}
	s.render(ww, p)
}

func (s *Server) render(w http.ResponseWriter, p *pageRequest) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", p.tag.String())
	var buf bytes.Buffer
	if err := s.views.Render(&buf, p.match.Route.Page, p.data); err != nil {
		appLog.Error("render failed", err, "page", string(p.match.Route.Page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(p.status)
	_, _ = buf.WriteTo(w)
}
