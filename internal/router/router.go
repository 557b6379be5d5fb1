package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// AppName is the suffix of every document title.
const AppName = "EventGo"

const maxRedirects = 8

// Page identifies the page component a route renders.
type Page string

// Meta is the per-route metadata read by navigation guards.
type Meta struct {
	Title string
	// RequiresAuth is carried for pages and templates; no guard enforces it.
	RequiresAuth bool
}

// Route is one entry of the route table.
type Route struct {
	Path     string
	Name     string
	Page     Page
	Redirect string
	// Props passes the captured path params to the page.
	Props    bool
	Meta     Meta
	Children []Route
}

// Params holds the dynamic segments captured by a match.
type Params map[string]string

func (p Params) ID() string             { return p["id"] }
func (p Params) UserID() string         { return p["userId"] }
func (p Params) ConversationID() string { return p["conversationId"] }

// Match is the outcome of resolving one path.
type Match struct {
	Route          Route
	Path           string
	Params         Params
	RedirectedFrom string

	// Title is filled in by TitleGuard.
	Title string
}

// Props returns the params handed to the page. Routes without Props get none.
func (m *Match) Props() Params {
	if !m.Route.Props {
		return Params{}
	}
	out := make(Params, len(m.Params))
	for k, v := range m.Params {
		out[k] = v
	}
	return out
}

// RequiresAuth reports the route's auth flag.
func (m *Match) RequiresAuth() bool { return m.Route.Meta.RequiresAuth }

// Guard runs before a navigation completes. A non-nil error aborts it.
type Guard func(m *Match) error

// TitleGuard sets the document title from meta.title.
func TitleGuard(m *Match) error {
	if m.Route.Meta.Title != "" {
		m.Title = m.Route.Meta.Title + " - " + AppName
	} else {
		m.Title = AppName
	}
	return nil
}

type entry struct {
	route    Route
	segments []string
}

// Router resolves paths against a flattened route table.
type Router struct {
	entries []entry
	guards  []Guard
}

// New flattens routes (children directly after their parent) and validates
// the table.
func New(routes []Route) (*Router, error) {
	r := &Router{}
	for _, rt := range routes {
		r.add(rt, nil)
	}
	if len(r.entries) == 0 {
		return nil, errors.New("router: empty route table")
	}

	names := map[string]bool{}
	for i, e := range r.entries {
		if e.route.Name != "" {
			if names[e.route.Name] {
				return nil, fmt.Errorf("router: duplicate route name %q", e.route.Name)
			}
			names[e.route.Name] = true
		}
		if e.route.Redirect == "" && e.route.Page == "" {
			return nil, fmt.Errorf("router: route %q has neither page nor redirect", e.route.Path)
		}
		if isWildcard(e.segments) && i != len(r.entries)-1 {
			return nil, fmt.Errorf("router: wildcard route %q must be last", e.route.Path)
		}
	}
	if !isWildcard(r.entries[len(r.entries)-1].segments) {
		return nil, errors.New("router: table has no catch-all route")
	}
	return r, nil
}

func (r *Router) add(rt Route, parent *Route) {
	children := rt.Children
	rt.Children = nil

	if parent != nil {
		rt.Path = joinPath(parent.Path, rt.Path)
		if rt.Meta.Title == "" {
			rt.Meta.Title = parent.Meta.Title
		}
		rt.Meta.RequiresAuth = rt.Meta.RequiresAuth || parent.Meta.RequiresAuth
	}
	r.entries = append(r.entries, entry{route: rt, segments: split(rt.Path)})

	for _, c := range children {
		r.add(c, &rt)
	}
}

// BeforeEach registers a guard. Guards run in registration order.
func (r *Router) BeforeEach(g Guard) {
	r.guards = append(r.guards, g)
}

// Routes returns the flattened table in matching order.
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.route
	}
	return out
}

// Resolve matches an escaped URL path, follows redirects and runs the
// guards. Because the table ends with a catch-all, a nil error always comes
// with a match.
func (r *Router) Resolve(path string) (*Match, error) {
	from := ""
	for hop := 0; hop <= maxRedirects; hop++ {
		m, err := r.match(path)
		if err != nil {
			return nil, err
		}
		if m.Route.Redirect != "" {
			if from == "" {
				from = m.Path
			}
			path = m.Route.Redirect
			continue
		}
		m.RedirectedFrom = from
		for _, g := range r.guards {
			if err := g(m); err != nil {
				return nil, fmt.Errorf("router: navigation to %s aborted: %w", m.Path, err)
			}
		}
		return m, nil
	}
	return nil, fmt.Errorf("router: too many redirects from %s", from)
}

func (r *Router) match(path string) (*Match, error) {
	raw := split(path)
	segs := make([]string, len(raw))
	for i, s := range raw {
		// A malformed escape can only match the catch-all; keep it verbatim.
		dec, err := url.PathUnescape(s)
		if err != nil {
			dec = s
		}
		segs[i] = dec
	}

	for _, e := range r.entries {
		if params, ok := matchSegments(e.segments, segs); ok {
			return &Match{
				Route:  e.route,
				Path:   "/" + strings.Join(raw, "/"),
				Params: params,
			}, nil
		}
	}
	// unreachable with a validated table
	return nil, fmt.Errorf("router: no route for %s", path)
}

func matchSegments(pattern, segs []string) (Params, bool) {
	params := Params{}
	for i, p := range pattern {
		if p == "*" {
			params["pathMatch"] = strings.Join(segs[i:], "/")
			return params, true
		}
		if i >= len(segs) {
			return nil, false
		}
		switch {
		case strings.HasPrefix(p, ":"):
			if segs[i] == "" {
				return nil, false
			}
			params[p[1:]] = segs[i]
		case !strings.EqualFold(p, segs[i]):
			return nil, false
		}
	}
	if len(segs) != len(pattern) {
		return nil, false
	}
	return params, true
}

func split(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func joinPath(parent, child string) string {
	if strings.HasPrefix(child, "/") {
		return child
	}
	return strings.TrimRight(parent, "/") + "/" + child
}

func isWildcard(segs []string) bool {
	return len(segs) > 0 && segs[len(segs)-1] == "*"
}
