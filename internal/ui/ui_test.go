package ui

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"eventgo/internal/i18n"
	"eventgo/internal/router"
)

func newViews(t *testing.T) *Views {
	t.Helper()
	v, err := New()
	require.NoError(t, err)
	require.NoError(t, v.RegisterGlobals())
	return v
}

func TestEveryRoutedPageHasTemplate(t *testing.T) {
	v := newViews(t)
	for _, rt := range router.Default().Routes() {
		if rt.Page == "" {
			continue
		}
		assert.True(t, v.Has(rt.Page), "page %s", rt.Page)
	}
}

func TestRegisterGlobals(t *testing.T) {
	v := newViews(t)
	assert.Len(t, v.Aliases(), len(GlobalAliases))
	assert.Contains(t, v.Aliases(), "AppToast")

	assert.Error(t, v.Register("Fancy", "Carousel"))
	assert.Error(t, v.Register("", "Button"))
	require.NoError(t, v.Register("Fancy", "Button"))
	assert.Contains(t, v.Aliases(), "Fancy")
}

func TestUnregisteredAliasFailsRender(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	m, err := router.Default().Resolve("/profile")
	require.NoError(t, err)
	var buf bytes.Buffer
	err = v.Render(&buf, m.Route.Page, NewPageData(m, nil, "es"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
	assert.Zero(t, buf.Len())
}

func TestRenderQuotes(t *testing.T) {
	v := newViews(t)
	b, err := i18n.New("en")
	require.NoError(t, err)

	m, err := router.Default().Resolve("/quotes")
	require.NoError(t, err)
	pd := NewPageData(m, b.Printer(language.English), "en")
	pd.Data = map[string]any{
		"Status":        "pending",
		"StatusOptions": []Option{{Value: "", Label: "All"}, {Value: "pending", Label: "Pending"}},
		"Table": Table{
			Columns: []string{"Title", "Status"},
			Rows: []Row{{ID: "q1", Cells: []Cell{
				{Text: "Wedding <b>", Href: "/quotes/detail/q1"},
				{Text: "Pending", Badge: "pending"},
			}}},
		},
	}
	pd.Fail("backend down")

	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf, m.Route.Page, pd))
	out := buf.String()

	assert.Contains(t, out, "<title>Quotes - EventGo</title>")
	assert.Contains(t, out, `data-ready="true"`)
	assert.Contains(t, out, `data-page="QuotePage"`)
	assert.Contains(t, out, `<option value="pending" selected>`)
	assert.Contains(t, out, "Wedding &lt;b&gt;")
	assert.Contains(t, out, `class="toast error"`)
	assert.Contains(t, out, `<li class="active"><a href="/quotes">`)
}

func TestRenderPrintHidesChrome(t *testing.T) {
	v := newViews(t)
	m, err := router.Default().Resolve("/not/a/page")
	require.NoError(t, err)
	pd := NewPageData(m, nil, "es")
	pd.Print = true

	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf, m.Route.Page, pd))
	assert.NotContains(t, buf.String(), `class="menubar"`)
	assert.NotContains(t, buf.String(), `id="sidebar"`)
	assert.Contains(t, buf.String(), "notfound.body")
}

func TestRenderUnknownPage(t *testing.T) {
	v := newViews(t)
	assert.Error(t, v.Render(&bytes.Buffer{}, router.Page("Nope"), &PageData{}))
}

func TestNavigation(t *testing.T) {
	active := func(path string) string {
		for _, it := range Navigation(path) {
			if it.Active {
				return it.Href
			}
		}
		return ""
	}
	assert.Equal(t, "/profile/albums", active("/profile/albums/3/edit"))
	assert.Equal(t, "/profile", active("/profile/edit"))
	assert.Equal(t, "/tasks", active("/tasks"))
	assert.Equal(t, "", active("/chat/7"))
	assert.Equal(t, "", active("/tasksx"))
}

func TestHelpers(t *testing.T) {
	_, err := dict("a")
	assert.Error(t, err)
	_, err = dict(1, "b")
	assert.Error(t, err)
	m, err := dict("a", 1, "b", "x")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": "x"}, m)

	assert.Equal(t, "AL", initials("ana lucía pérez"))
	assert.Equal(t, "É", initials("élodie"))
	assert.Equal(t, "?", initials("  "))

	assert.Equal(t, "a%2Fb", pathEscape("a/b"))
	assert.Equal(t, "100%25", pathEscape("100%"))
}

func TestStaticAssets(t *testing.T) {
	for _, name := range []string{"app.css", "app.js"} {
		_, err := fs.Stat(Static(), name)
		assert.NoError(t, err, name)
	}
}
