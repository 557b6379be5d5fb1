// Package ui is the view layer: embedded templates, the shared component
// set and the global component aliases pages refer to.
package ui

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"eventgo/internal/router"
)

//go:embed templates
var templateFS embed.FS

//go:embed all:static
var staticFS embed.FS

// Components is the built-in component set. Each one is a template named
// "ui/{Component}".
var Components = []string{
	"Menubar", "Button", "Avatar", "Sidebar", "Dropdown",
	"InputText", "Dialog", "Table", "Toast",
}

// GlobalAliases maps every alias registered at bootstrap to its component.
var GlobalAliases = map[string]string{
	"Menubar":     "Menubar",
	"Button":      "Button",
	"Avatar":      "Avatar",
	"Sidebar":     "Sidebar",
	"Dropdown":    "Dropdown",
	"InputText":   "InputText",
	"Dialog":      "Dialog",
	"Table":       "Table",
	"AppMenubar":  "Menubar",
	"AppButton":   "Button",
	"AppAvatar":   "Avatar",
	"AppSidebar":  "Sidebar",
	"AppDropdown": "Dropdown",
	"AppToast":    "Toast",
}

// pageFiles maps each routed page to its template under templates/pages.
var pageFiles = map[router.Page]string{
	router.PageDashboard:     "dashboard.html",
	router.PageEvents:        "events.html",
	router.PageEventForm:     "event_form.html",
	router.PageTasks:         "tasks.html",
	router.PageTaskCreate:    "task_form.html",
	router.PageTaskEdit:      "task_form.html",
	router.PageTaskDetail:    "task_detail.html",
	router.PageQuotes:        "quotes.html",
	router.PageQuoteCreate:   "quote_form.html",
	router.PageQuoteEdit:     "quote_form.html",
	router.PageQuoteDetail:   "quote_detail.html",
	router.PageMessages:      "messages.html",
	router.PageChat:          "chat.html",
	router.PageProfile:       "profile.html",
	router.PageProfileEdit:   "profile_edit.html",
	router.PageOrganizerChat: "organizer_chat.html",
	router.PageAlbums:        "albums.html",
	router.PageAlbumCreate:   "album_form.html",
	router.PageAlbumEdit:     "album_form.html",
	router.PageNotFound:      "not_found.html",
}

// Views holds the parsed page templates.
type Views struct {
	root  *template.Template
	pages map[router.Page]*template.Template

	mu      sync.RWMutex
	aliases map[string]string
}

// New parses the layout, the components and every page template.
func New() (*Views, error) {
	v := &Views{
		pages:   make(map[router.Page]*template.Template),
		aliases: make(map[string]string),
	}

	root, err := template.New("root").Funcs(v.funcs()).ParseFS(templateFS,
		"templates/layout.html",
		"templates/components.html",
	)
	if err != nil {
		return nil, fmt.Errorf("ui: parse layout: %w", err)
	}
	for _, c := range Components {
		if root.Lookup("ui/"+c) == nil {
			return nil, fmt.Errorf("ui: component %s has no template", c)
		}
	}
	v.root = root

	for page, file := range pageFiles {
		t, err := root.Clone()
		if err != nil {
			return nil, fmt.Errorf("ui: clone layout: %w", err)
		}
		if _, err := t.ParseFS(templateFS, "templates/pages/"+file); err != nil {
			return nil, fmt.Errorf("ui: parse %s: %w", file, err)
		}
		v.pages[page] = t
	}
	return v, nil
}

// Register makes alias resolve to component in every template.
func (v *Views) Register(alias, component string) error {
	if alias == "" {
		return errors.New("ui: empty alias")
	}
	if v.root.Lookup("ui/"+component) == nil {
		return fmt.Errorf("ui: unknown component %q", component)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.aliases[alias] = component
	return nil
}

// RegisterGlobals registers GlobalAliases.
func (v *Views) RegisterGlobals() error {
	names := make([]string, 0, len(GlobalAliases))
	for alias := range GlobalAliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	for _, alias := range names {
		if err := v.Register(alias, GlobalAliases[alias]); err != nil {
			return err
		}
	}
	return nil
}

// Aliases returns the registered aliases, sorted.
func (v *Views) Aliases() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]string, 0, len(v.aliases))
	for a := range v.aliases {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Has reports whether page has a template.
func (v *Views) Has(page router.Page) bool {
	_, ok := v.pages[page]
	return ok
}

// Render executes the layout for page into w. The output is buffered so a
// template error never leaves a half-written page behind.
func (v *Views) Render(w io.Writer, page router.Page, data *PageData) error {
	t, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("ui: no template for page %s", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("ui: render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Static returns the embedded static assets (css, js).
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func (v *Views) component(name string, data any) (template.HTML, error) {
	v.mu.RLock()
	target, ok := v.aliases[name]
	v.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("ui: component alias %q is not registered", name)
	}
	var buf bytes.Buffer
	if err := v.root.ExecuteTemplate(&buf, "ui/"+target, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (v *Views) funcs() template.FuncMap {
	return template.FuncMap{
		"component": v.component,
		"dict":      dict,
		"list":      func(items ...any) []any { return items },
		"date":      formatDate,
		"datetime":  formatDateTime,
		"money":     func(f float64) string { return fmt.Sprintf("%.2f", f) },
		"initials":  initials,
		"lower":     strings.ToLower,
		"escape":    pathEscape,
	}
}

// pathEscape escapes one path segment, typically a record id.
func pathEscape(v any) string {
	return url.PathEscape(fmt.Sprint(v))
}

func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

func initials(name string) string {
	var out []rune
	for _, f := range strings.Fields(name) {
		out = append(out, []rune(strings.ToUpper(f))[0])
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}
