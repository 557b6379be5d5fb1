package i18n

import "golang.org/x/text/language"

var messages = map[language.Tag]map[string]string{
	language.Spanish: {
		"app.name":                 "EventGo",
		"nav.dashboard":            "Panel",
		"nav.events":               "Eventos",
		"nav.tasks":                "Tareas",
		"nav.quotes":               "Cotizaciones",
		"nav.messages":             "Mensajes",
		"nav.profile":              "Perfil",
		"nav.albums":               "Álbumes",
		"nav.chat":                 "Chat con clientes",
		"menu.toggle":              "Menú",
		"action.create":            "Crear",
		"action.save":              "Guardar",
		"action.edit":              "Editar",
		"action.delete":            "Eliminar",
		"action.delete_selected":   "Eliminar seleccionados",
		"action.search":            "Buscar",
		"action.filter":            "Filtrar",
		"action.cancel":            "Cancelar",
		"action.send":              "Enviar",
		"action.back":              "Volver",
		"action.pdf":               "Descargar PDF",
		"action.ics":               "Exportar calendario",
		"label.title":              "Título",
		"label.description":        "Descripción",
		"label.location":           "Ubicación",
		"label.status":             "Estado",
		"label.category":           "Categoría",
		"label.start":              "Inicio",
		"label.end":                "Fin",
		"label.all_day":            "Todo el día",
		"label.recurrence":         "Repetición (RRULE)",
		"label.capacity":           "Capacidad",
		"label.price":              "Precio",
		"label.priority":           "Prioridad",
		"label.due":                "Fecha límite",
		"label.assignee":           "Responsable",
		"label.client":             "Cliente",
		"label.client_email":       "Correo del cliente",
		"label.event_type":         "Tipo de evento",
		"label.event_date":         "Fecha del evento",
		"label.amount":             "Monto",
		"label.currency":           "Moneda",
		"label.notes":              "Notas",
		"label.total":              "Total",
		"label.name":               "Nombre",
		"label.email":              "Correo",
		"label.phone":              "Teléfono",
		"label.company":            "Empresa",
		"label.bio":                "Biografía",
		"label.website":            "Sitio web",
		"label.avatar":             "Foto de perfil",
		"label.cover":              "Portada (URL)",
		"label.photos":             "Fotos (una URL por línea)",
		"label.message":            "Mensaje",
		"label.all":                "Todos",
		"status.draft":             "Borrador",
		"status.published":         "Publicado",
		"status.cancelled":         "Cancelado",
		"status.completed":         "Completado",
		"status.pending":           "Pendiente",
		"status.in_progress":       "En progreso",
		"status.approved":          "Aprobado",
		"status.rejected":          "Rechazado",
		"priority.low":             "Baja",
		"priority.medium":          "Media",
		"priority.high":            "Alta",
		"dashboard.upcoming":       "Próximos eventos (%d)",
		"dashboard.tasks":          "Tareas por estado",
		"dashboard.pending_quotes": "Cotizaciones pendientes (%d)",
		"dashboard.truncated":      "Algunas repeticiones se omitieron.",
		"empty.list":               "No hay registros.",
		"empty.thread":             "Aún no hay mensajes.",
		"error.title":              "Error",
		"error.validation":         "Revisa los campos marcados.",
		"validation.required":      "Campo obligatorio.",
		"validation.email":         "Correo no válido.",
		"validation.url":           "URL no válida.",
		"validation.oneof":         "Valor no permitido.",
		"validation.max":           "Demasiado largo.",
		"validation.number":        "Debe ser un número.",
		"validation.min":           "No puede ser negativo.",
		"validation.invalid":       "Valor no válido.",
		"validation.date":          "Fecha no válida.",
		"validation.end_before":    "La fecha de fin es anterior al inicio.",
		"validation.rrule":         "Regla de repetición no válida.",
		"error.no_selection":       "No seleccionaste ningún elemento.",
		"error.calendar":           "No se pudo leer el archivo .ics.",
		"notfound.body":            "La página que buscas no existe.",
		"messages.conversations":   "Conversaciones",
		"messages.select":          "Selecciona una conversación.",
		"albums.photos":            "%d fotos",
		"profile.rating":           "Valoración",
		"profile.events_count":     "Eventos organizados",
	},
	language.English: {
		"app.name":                 "EventGo",
		"nav.dashboard":            "Dashboard",
		"nav.events":               "Events",
		"nav.tasks":                "Tasks",
		"nav.quotes":               "Quotes",
		"nav.messages":             "Messages",
		"nav.profile":              "Profile",
		"nav.albums":               "Albums",
		"nav.chat":                 "Client chat",
		"menu.toggle":              "Menu",
		"action.create":            "Create",
		"action.save":              "Save",
		"action.edit":              "Edit",
		"action.delete":            "Delete",
		"action.delete_selected":   "Delete selected",
		"action.search":            "Search",
		"action.filter":            "Filter",
		"action.cancel":            "Cancel",
		"action.send":              "Send",
		"action.back":              "Back",
		"action.pdf":               "Download PDF",
		"action.ics":               "Export calendar",
		"label.title":              "Title",
		"label.description":        "Description",
		"label.location":           "Location",
		"label.status":             "Status",
		"label.category":           "Category",
		"label.start":              "Start",
		"label.end":                "End",
		"label.all_day":            "All day",
		"label.recurrence":         "Repeat (RRULE)",
		"label.capacity":           "Capacity",
		"label.price":              "Price",
		"label.priority":           "Priority",
		"label.due":                "Due date",
		"label.assignee":           "Assignee",
		"label.client":             "Client",
		"label.client_email":       "Client email",
		"label.event_type":         "Event type",
		"label.event_date":         "Event date",
		"label.amount":             "Amount",
		"label.currency":           "Currency",
		"label.notes":              "Notes",
		"label.total":              "Total",
		"label.name":               "Name",
		"label.email":              "Email",
		"label.phone":              "Phone",
		"label.company":            "Company",
		"label.bio":                "Bio",
		"label.website":            "Website",
		"label.avatar":             "Profile picture",
		"label.cover":              "Cover (URL)",
		"label.photos":             "Photos (one URL per line)",
		"label.message":            "Message",
		"label.all":                "All",
		"status.draft":             "Draft",
		"status.published":         "Published",
		"status.cancelled":         "Cancelled",
		"status.completed":         "Completed",
		"status.pending":           "Pending",
		"status.in_progress":       "In progress",
		"status.approved":          "Approved",
		"status.rejected":          "Rejected",
		"priority.low":             "Low",
		"priority.medium":          "Medium",
		"priority.high":            "High",
		"dashboard.upcoming":       "Upcoming events (%d)",
		"dashboard.tasks":          "Tasks by status",
		"dashboard.pending_quotes": "Pending quotes (%d)",
		"dashboard.truncated":      "Some repetitions were left out.",
		"empty.list":               "Nothing here yet.",
		"empty.thread":             "No messages yet.",
		"error.title":              "Error",
		"error.validation":         "Check the highlighted fields.",
		"validation.required":      "This field is required.",
		"validation.email":         "Must be a valid email address.",
		"validation.url":           "Must be a valid URL.",
		"validation.oneof":         "Value not allowed.",
		"validation.max":           "Too long.",
		"validation.number":        "Must be a number.",
		"validation.min":           "Must not be negative.",
		"validation.invalid":       "Invalid value.",
		"validation.date":          "Invalid date.",
		"validation.end_before":    "End is before start.",
		"validation.rrule":         "Invalid recurrence rule.",
		"error.no_selection":       "Nothing selected.",
		"error.calendar":           "The .ics file could not be read.",
		"notfound.body":            "The page you are looking for does not exist.",
		"messages.conversations":   "Conversations",
		"messages.select":          "Pick a conversation.",
		"albums.photos":            "%d photos",
		"profile.rating":           "Rating",
		"profile.events_count":     "Events organized",
	},
}
