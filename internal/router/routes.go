package router

// Pages rendered by the web layer.
const (
	PageDashboard     Page = "DashboardView"
	PageEvents        Page = "EventPage"
	PageEventForm     Page = "CreateAndEditEvent"
	PageTasks         Page = "TaskPage"
	PageTaskCreate    Page = "TaskCreatePage"
	PageTaskEdit      Page = "TaskEditPage"
	PageTaskDetail    Page = "TaskDetailPage"
	PageQuotes        Page = "QuotePage"
	PageQuoteCreate   Page = "QuoteCreatePage"
	PageQuoteEdit     Page = "QuoteEditPage"
	PageQuoteDetail   Page = "QuoteDetailPage"
	PageMessages      Page = "MessagesView"
	PageChat          Page = "ChatView"
	PageProfile       Page = "OrganizerProfilePage"
	PageProfileEdit   Page = "OrganizerProfileEditPage"
	PageOrganizerChat Page = "OrganizerChatPage"
	PageAlbums        Page = "OrganizerAlbumPage"
	PageAlbumCreate   Page = "OrganizerAlbumCreatePage"
	PageAlbumEdit     Page = "OrganizerAlbumEditPage"
	PageNotFound      Page = "PageNotFound"
)

// Routes returns the application route table in declaration order.
func Routes() []Route {
	return []Route{
		{Path: "/", Redirect: "/dashboard"},
		{
			Path: "/dashboard",
			Name: "Dashboard",
			Page: PageDashboard,
			Meta: Meta{RequiresAuth: true},
		},
		{
			Path: "/events",
			Name: "Events",
			Page: PageEvents,
			Meta: Meta{Title: "Events Management", RequiresAuth: true},
		},
		{
			Path: "/events/create",
			Name: "Create Event",
			Page: PageEventForm,
			Meta: Meta{Title: "Create Event", RequiresAuth: true},
		},

		// tasks
		{Path: "/tasks", Name: "tasks", Page: PageTasks, Meta: Meta{Title: "Gestión de Tareas"}},
		{Path: "/tasks/create", Name: "task-create", Page: PageTaskCreate, Meta: Meta{Title: "Crear Tarea"}},
		{Path: "/tasks/:id/edit", Name: "task-edit", Page: PageTaskEdit, Props: true, Meta: Meta{Title: "Editar Tarea"}},
		{Path: "/tasks/:id", Name: "task-detail", Page: PageTaskDetail, Props: true, Meta: Meta{Title: "Detalle de Tarea"}},

		// quotes
		{
			Path: "/quotes",
			Name: "quotes",
			Page: PageQuotes,
			Meta: Meta{Title: "Quotes", RequiresAuth: true},
		},
		{
			Path: "/quotes/create",
			Name: "quote-create",
			Page: PageQuoteCreate,
			Meta: Meta{Title: "Create Quote", RequiresAuth: true},
		},
		{
			Path:  "/quotes/edit/:id",
			Name:  "quote-edit",
			Page:  PageQuoteEdit,
			Props: true,
			Meta:  Meta{Title: "Edit Quote", RequiresAuth: true},
		},
		{
			Path:  "/quotes/detail/:id",
			Name:  "quote-detail",
			Page:  PageQuoteDetail,
			Props: true,
			Meta:  Meta{Title: "Quote Detail", RequiresAuth: true},
		},

		{
			Path: "/messages",
			Name: "Messages",
			Page: PageMessages,
			Meta: Meta{RequiresAuth: true},
			Children: []Route{
				{Path: ":conversationId", Name: "MessagesConversation", Page: PageMessages, Props: true},
			},
		},
		{
			Path:  "/chat/:userId",
			Name:  "DirectChat",
			Page:  PageChat,
			Props: true,
			Meta:  Meta{RequiresAuth: true},
		},

		// organizer profile
		{Path: "/profile", Name: "OrganizerProfilePage", Page: PageProfile, Meta: Meta{Title: "Perfil del Organizador", RequiresAuth: true}},
		{Path: "/profile/edit", Name: "OrganizerProfileEditPage", Page: PageProfileEdit, Meta: Meta{Title: "Editar Perfil", RequiresAuth: true}},
		{Path: "/profile/chat", Name: "OrganizerChatPage", Page: PageOrganizerChat, Meta: Meta{Title: "Chat con Clientes", RequiresAuth: true}},

		// albums
		{Path: "/profile/albums", Name: "OrganizerAlbumPage", Page: PageAlbums, Meta: Meta{Title: "Álbumes", RequiresAuth: true}},
		{Path: "/profile/albums/create", Name: "OrganizerAlbumCreatePage", Page: PageAlbumCreate, Meta: Meta{Title: "Crear Álbum", RequiresAuth: true}},
		{Path: "/profile/albums/:id/edit", Name: "OrganizerAlbumEditPage", Page: PageAlbumEdit, Props: true, Meta: Meta{Title: "Editar Álbum", RequiresAuth: true}},

		{Path: "*", Name: "PageNotFound", Page: PageNotFound, Meta: Meta{Title: "Página no encontrada"}},
	}
}

// Default builds the application router with the title guard installed.
func Default() *Router {
	r, err := New(Routes())
	if err != nil {
		panic(err)
	}
	r.BeforeEach(TitleGuard)
	return r
}
