package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryDeclaredPathResolvesToItsPage(t *testing.T) {
	r := Default()

	cases := map[string]Page{
		"/dashboard":                PageDashboard,
		"/events":                   PageEvents,
		"/events/create":            PageEventForm,
		"/tasks":                    PageTasks,
		"/tasks/create":             PageTaskCreate,
		"/tasks/7":                  PageTaskDetail,
		"/tasks/7/edit":             PageTaskEdit,
		"/quotes":                   PageQuotes,
		"/quotes/create":            PageQuoteCreate,
		"/quotes/edit/3":            PageQuoteEdit,
		"/quotes/detail/3":          PageQuoteDetail,
		"/messages":                 PageMessages,
		"/messages/c1":              PageMessages,
		"/chat/u9":                  PageChat,
		"/profile":                  PageProfile,
		"/profile/edit":             PageProfileEdit,
		"/profile/chat":             PageOrganizerChat,
		"/profile/albums":           PageAlbums,
		"/profile/albums/create":    PageAlbumCreate,
		"/profile/albums/a1/edit":   PageAlbumEdit,
		"/nope":                     PageNotFound,
		"/tasks/7/edit/extra":       PageNotFound,
		"/quotes/detail":            PageNotFound,
		"/profile/albums/a1":        PageNotFound,
		"/something/deeply/missing": PageNotFound,
	}
	for path, want := range cases {
		m, err := r.Resolve(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, m.Route.Page, path)
	}
}

func TestRootRedirectsToDashboard(t *testing.T) {
	m, err := Default().Resolve("/")
	require.NoError(t, err)
	assert.Equal(t, "Dashboard", m.Route.Name)
	assert.Equal(t, "/dashboard", m.Path)
	assert.Equal(t, "/", m.RedirectedFrom)
}

func TestTitleGuard(t *testing.T) {
	r := Default()

	m, err := r.Resolve("/quotes")
	require.NoError(t, err)
	assert.Equal(t, "Quotes - EventGo", m.Title)

	m, err = r.Resolve("/dashboard")
	require.NoError(t, err)
	assert.Equal(t, "EventGo", m.Title)

	m, err = r.Resolve("/missing")
	require.NoError(t, err)
	assert.Equal(t, "Página no encontrada - EventGo", m.Title)
}

func TestMatchingIsLenient(t *testing.T) {
	r := Default()

	for _, p := range []string{"/Quotes/", "/QUOTES", "quotes", "/quotes?status=pending"} {
		m, err := r.Resolve(p)
		require.NoError(t, err, p)
		assert.Equal(t, PageQuotes, m.Route.Page, p)
	}
}

func TestPropsOnlyForPropsRoutes(t *testing.T) {
	r := Default()

	m, err := r.Resolve("/tasks/42/edit")
	require.NoError(t, err)
	assert.Equal(t, "42", m.Props().ID())

	m, err = r.Resolve("/chat/user%2F1")
	require.NoError(t, err)
	assert.Equal(t, "user/1", m.Props().UserID())

	m, err = r.Resolve("/messages/c7")
	require.NoError(t, err)
	assert.Equal(t, "MessagesConversation", m.Route.Name)
	assert.Equal(t, "c7", m.Props().ConversationID())

	m, err = r.Resolve("/nowhere/at/all")
	require.NoError(t, err)
	assert.Equal(t, "nowhere/at/all", m.Params["pathMatch"])
	assert.Empty(t, m.Props())
}

func TestChildInheritsParentMeta(t *testing.T) {
	m, err := Default().Resolve("/messages/c1")
	require.NoError(t, err)
	assert.True(t, m.RequiresAuth())
	assert.Equal(t, "/messages/:conversationId", m.Route.Path)

	m, err = Default().Resolve("/tasks")
	require.NoError(t, err)
	assert.False(t, m.RequiresAuth())
}

func TestGuardsRunInOrderAndCanAbort(t *testing.T) {
	r, err := New(Routes())
	require.NoError(t, err)

	var order []string
	r.BeforeEach(func(m *Match) error { order = append(order, "first"); return nil })
	r.BeforeEach(func(m *Match) error {
		order = append(order, "second")
		if m.Route.Name == "quotes" {
			return errors.New("blocked")
		}
		return nil
	})

	_, err = r.Resolve("/events")
	require.NoError(t, err)
	_, err = r.Resolve("/quotes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")
	assert.Equal(t, []string{"first", "second", "first", "second"}, order)
}

func TestNewValidatesTable(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]Route{{Path: "/a", Name: "a", Page: "A"}})
	assert.ErrorContains(t, err, "catch-all")

	_, err = New([]Route{
		{Path: "*", Name: "nf", Page: "NF"},
		{Path: "/a", Name: "a", Page: "A"},
	})
	assert.ErrorContains(t, err, "must be last")

	_, err = New([]Route{
		{Path: "/a", Name: "x", Page: "A"},
		{Path: "*", Name: "x", Page: "NF"},
	})
	assert.ErrorContains(t, err, "duplicate")
}

func TestRedirectLoopIsReported(t *testing.T) {
	r, err := New([]Route{
		{Path: "/a", Redirect: "/b"},
		{Path: "/b", Redirect: "/a"},
		{Path: "*", Name: "nf", Page: "NF"},
	})
	require.NoError(t, err)

	_, err = r.Resolve("/a")
	assert.ErrorContains(t, err, "too many redirects")
}

func TestRoutesAreFlattenedInDeclarationOrder(t *testing.T) {
	routes := Default().Routes()
	require.NotEmpty(t, routes)
	assert.Equal(t, "/", routes[0].Path)
	assert.Equal(t, "*", routes[len(routes)-1].Path)

	var sawMessages bool
	for i, rt := range routes {
		assert.Empty(t, rt.Children)
		if rt.Name == "Messages" {
			sawMessages = true
			assert.Equal(t, "MessagesConversation", routes[i+1].Name)
		}
	}
	assert.True(t, sawMessages)
}

func TestEscapedSegments(t *testing.T) {
	r := Default()

	m, err := r.Resolve("/tasks/100%25")
	require.NoError(t, err)
	assert.Equal(t, PageTaskDetail, m.Route.Page)
	assert.Equal(t, "100%", m.Params.ID())

	m, err = r.Resolve("/tasks/a%2Fb")
	require.NoError(t, err)
	assert.Equal(t, PageTaskDetail, m.Route.Page)
	assert.Equal(t, "a/b", m.Params.ID())

	// Malformed escapes fall through to the not-found page.
	m, err = r.Resolve("/nowhere%zz")
	require.NoError(t, err)
	assert.Equal(t, PageNotFound, m.Route.Page)
}
