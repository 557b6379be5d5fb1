package web

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"eventgo/internal/apiclient"
	"eventgo/internal/ics"
	appLog "eventgo/internal/log"
	"eventgo/internal/model"
	"eventgo/internal/router"
	"eventgo/internal/service"
	"eventgo/internal/ui"
)

const (
	tableDate     = "02/01/2006"
	tableDateTime = "02/01/2006 15:04"
)

func (s *Server) pageHandlers() map[router.Page]pageHandler {
	return map[router.Page]pageHandler{
		router.PageDashboard:     {get: s.dashboard},
		router.PageEvents:        {get: s.events, post: s.eventsAction},
		router.PageEventForm:     {get: s.newEvent, post: s.createEvent},
		router.PageTasks:         {get: s.tasks},
		router.PageTaskCreate:    {get: s.editTask, post: s.saveTask},
		router.PageTaskEdit:      {get: s.editTask, post: s.saveTask},
		router.PageTaskDetail:    {get: s.taskDetail, post: s.deleteTask},
		router.PageQuotes:        {get: s.quotes},
		router.PageQuoteCreate:   {get: s.editQuote, post: s.saveQuote},
		router.PageQuoteEdit:     {get: s.editQuote, post: s.saveQuote},
		router.PageQuoteDetail:   {get: s.quoteDetail},
		router.PageMessages:      {get: s.messages, post: s.sendMessage},
		router.PageChat:          {get: s.chat, post: s.sendDirect},
		router.PageProfile:       {get: s.profile},
		router.PageProfileEdit:   {get: s.profileEdit, post: s.saveProfile},
		router.PageOrganizerChat: {get: s.organizerChat},
		router.PageAlbums:        {get: s.albums},
		router.PageAlbumCreate:   {get: s.editAlbum, post: s.saveAlbum},
		router.PageAlbumEdit:     {get: s.editAlbum, post: s.saveAlbum},
		router.PageNotFound:      {get: func(*pageRequest) {}},
	}
}

type dashboardData struct {
	Occurrences   []model.Occurrence
	Truncated     bool
	TaskCounts    []ui.Option
	PendingQuotes []model.Quote
}

type listData struct {
	Query         string
	Status        string
	StatusOptions []ui.Option
	Table         ui.Table
	ExportHref    string
}

type formData struct {
	Form            any
	StatusOptions   []ui.Option
	PriorityOptions []ui.Option
	CancelHref      string
	AvatarURL       string
}

type taskDetailData struct {
	Task *model.Task
}

type quoteDetailData struct {
	Quote *model.Quote
}

type threadData struct {
	Conversations []model.Conversation
	Selected      string
	Me            string
	Thread        []model.Message
	PeerName      string
	PeerAvatar    string
}

type profileData struct {
	Organizer *model.Organizer
}

type albumsData struct {
	Albums []model.Album
}

var (
	eventStatuses    = []string{model.EventDraft, model.EventPublished, model.EventCancelled, model.EventCompleted}
	taskStatuses     = []string{model.TaskPending, model.TaskInProgress, model.TaskCompleted}
	taskPriorities   = []string{model.PriorityLow, model.PriorityMedium, model.PriorityHigh}
	quoteStatuses    = []string{model.QuotePending, model.QuoteApproved, model.QuoteRejected}
	errMissingAction = errors.New("missing form action")
)

// options builds translated select options from message keys prefix+value.
func (p *pageRequest) options(prefix string, values []string) []ui.Option {
	out := make([]ui.Option, 0, len(values))
	for _, v := range values {
		out = append(out, ui.Option{Value: v, Label: p.data.T(prefix + v)})
	}
	return out
}

// filterOptions is options with a leading "all" entry.
func (p *pageRequest) filterOptions(prefix string, values []string) []ui.Option {
	return append([]ui.Option{{Value: "", Label: p.data.T("label.all")}}, p.options(prefix, values)...)
}

func (p *pageRequest) statusCell(status string) ui.Cell {
	if status == "" {
		return ui.Cell{}
	}
	return ui.Cell{Text: p.data.T("status." + status), Badge: status}
}

// me loads the signed-in organizer, failing the page when it cannot.
func (s *Server) me(p *pageRequest) (model.Organizer, bool) {
	o, err := s.svc.Profiles.Current(p.r.Context())
	if err != nil {
		p.fail(err)
		return model.Organizer{}, false
	}
	return o, true
}

func (s *Server) formTime(t time.Time, allDay bool) string {
	if t.IsZero() {
		return ""
	}
	if allDay {
		return t.In(s.loc).Format(tableDate)
	}
	return t.In(s.loc).Format(tableDateTime)
}

// dashboard

func (s *Server) dashboard(p *pageRequest) {
	var (
		events []model.Event
		tasks  []model.Task
		quotes []model.Quote
	)
	g, ctx := errgroup.WithContext(p.r.Context())
	g.Go(func() (err error) {
		events, err = s.svc.Events.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.svc.Tasks.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		quotes, err = s.svc.Quotes.FilterByStatus(ctx, model.QuotePending)
		return err
	})
	err := g.Wait()

	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	res, xerr := ics.Expand(events, ics.ExpandConfig{
		DisplayLocation: s.loc,
		RangeStart:      today,
		RangeEnd:        today.AddDate(0, 0, s.cfg.HorizonDays),
	})
	if xerr != nil {
		appLog.Error("dashboard: expand failed", xerr)
	}

	counts := make(map[string]int, len(taskStatuses))
	for _, t := range tasks {
		counts[t.Status]++
	}
	taskCounts := make([]ui.Option, 0, len(taskStatuses))
	for _, st := range taskStatuses {
		taskCounts = append(taskCounts, ui.Option{Value: st, Label: strconv.Itoa(counts[st])})
	}

	p.data.Data = dashboardData{
		Occurrences:   res.Occurrences,
		Truncated:     len(res.TruncatedEvents) > 0,
		TaskCounts:    taskCounts,
		PendingQuotes: quotes,
	}
	if err != nil {
		p.fail(err)
	}
}

// events

func (s *Server) events(p *pageRequest) {
	ctx := p.r.Context()
	query := strings.TrimSpace(p.r.URL.Query().Get("q"))
	status := p.r.URL.Query().Get("status")

	var (
		events []model.Event
		err    error
	)
	switch {
	case query != "":
		events, err = s.svc.Events.Search(ctx, query)
		if status != "" {
			events = filterEvents(events, status)
		}
	case status != "":
		events, err = s.svc.Events.FilterByStatus(ctx, status)
	default:
		events, err = s.svc.Events.List(ctx)
	}

	table := ui.Table{
		Columns: []string{
			p.data.T("label.title"),
			p.data.T("label.start"),
			p.data.T("label.location"),
			p.data.T("label.status"),
		},
		Selectable: true,
		Empty:      p.data.T("empty.list"),
	}
	for _, ev := range events {
		table.Rows = append(table.Rows, ui.Row{
			ID: ev.ID.String(),
			Cells: []ui.Cell{
				{Text: ev.Title},
				{Text: s.formTime(ev.StartDate.Time, ev.AllDay)},
				{Text: ev.Location},
				p.statusCell(ev.Status),
			},
		})
	}

	export := "/events/calendar.ics"
	if status != "" {
		export += "?status=" + url.QueryEscape(status)
	}
	p.data.Data = listData{
		Query:         query,
		Status:        status,
		StatusOptions: p.filterOptions("status.", eventStatuses),
		Table:         table,
		ExportHref:    export,
	}
	if err != nil {
		p.fail(err)
	}
}

func filterEvents(events []model.Event, status string) []model.Event {
	out := events[:0:0]
	for _, ev := range events {
		if ev.Status == status {
			out = append(out, ev)
		}
	}
	return out
}

func (s *Server) eventsAction(p *pageRequest) {
	if err := parseForm(p.r); err != nil {
		s.events(p)
		p.invalid(fieldErrors{"": "validation.invalid"})
		return
	}

	switch formValue(p.r, "action") {
	case "delete":
		f := readIDs(p.r)
		if errs := s.validateForm(f); errs != nil {
			s.events(p)
			p.data.Fail(p.data.T("error.no_selection"))
			p.status = http.StatusBadRequest
			return
		}
		if err := s.svc.Events.DeleteMultiple(p.r.Context(), f.IDs); err != nil {
			s.events(p)
			p.fail(err)
			return
		}
		appLog.Info("events deleted", "count", len(f.IDs))
		p.seeOther("/events")
	case "import":
		s.importCalendar(p)
	default:
		appLog.Error("events: unknown action", errMissingAction, "action", formValue(p.r, "action"))
		s.events(p)
		p.invalid(fieldErrors{"action": "validation.invalid"})
	}
}

// importCalendar creates one event per VEVENT of an uploaded .ics file.
func (s *Server) importCalendar(p *pageRequest) {
	rejected := func(err error) {
		appLog.Error("events: calendar import rejected", err)
		s.events(p)
		p.data.Fail(p.data.T("error.calendar"))
		p.status = http.StatusBadRequest
	}

	file, hdr, err := p.r.FormFile("calendar")
	if err != nil {
		rejected(err)
		return
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, maxUpload+1))
	if err != nil {
		rejected(err)
		return
	}
	if len(body) > maxUpload {
		rejected(errors.New("calendar file too large"))
		return
	}
	events, err := ics.Parse(body)
	if err != nil {
		rejected(err)
		return
	}

	ctx := p.r.Context()
	for _, ev := range events {
		ev.ID = ""
		if ev.Status == "" {
			ev.Status = model.EventDraft
		}
		if _, err := s.svc.Events.Create(ctx, ev); err != nil {
			s.events(p)
			p.fail(err)
			return
		}
	}
	appLog.Info("calendar imported", "file", hdr.Filename, "events", len(events))
	p.seeOther("/events")
}

func (s *Server) newEvent(p *pageRequest) {
	next := s.now().In(s.loc).Truncate(time.Hour).Add(time.Hour)
	s.showEventForm(p, eventForm{Status: model.EventDraft, Start: next.Format(inputDateTime)})
}

func (s *Server) showEventForm(p *pageRequest, f eventForm) {
	p.data.Data = formData{
		Form:          f,
		StatusOptions: p.options("status.", eventStatuses),
		CancelHref:    "/events",
	}
}

func (s *Server) createEvent(p *pageRequest) {
	if err := parseForm(p.r); err != nil {
		s.showEventForm(p, eventForm{})
		p.invalid(fieldErrors{"": "validation.invalid"})
		return
	}
	f := readEventForm(p.r)
	s.showEventForm(p, f)

	errs := s.validateForm(f)
	var ev model.Event
	if errs == nil {
		ev, errs = f.event(s.loc)
	}
	if errs != nil {
		p.invalid(errs)
		return
	}
	if _, err := s.svc.Events.Create(p.r.Context(), ev); err != nil {
		p.fail(err)
		return
	}
	p.seeOther("/events")
}

// tasks

func (s *Server) tasks(p *pageRequest) {
	ctx := p.r.Context()
	status := p.r.URL.Query().Get("status")

	var (
		tasks []model.Task
		err   error
	)
	if status != "" {
		tasks, err = s.svc.Tasks.FilterByStatus(ctx, status)
	} else {
		tasks, err = s.svc.Tasks.List(ctx)
	}

	table := ui.Table{
		Columns: []string{
			p.data.T("label.title"),
			p.data.T("label.status"),
			p.data.T("label.priority"),
			p.data.T("label.due"),
		},
		Empty: p.data.T("empty.list"),
	}
	for _, t := range tasks {
		prio := ""
		if t.Priority != "" {
			prio = p.data.T("priority." + t.Priority)
		}
		table.Rows = append(table.Rows, ui.Row{
			ID: t.ID.String(),
			Cells: []ui.Cell{
				{Text: t.Title, Href: "/tasks/" + url.PathEscape(t.ID.String())},
				p.statusCell(t.Status),
				{Text: prio},
				{Text: s.formTime(t.DueDate.Time, true)},
			},
		})
	}

	p.data.Data = listData{
		Status:        status,
		StatusOptions: p.filterOptions("status.", taskStatuses),
		Table:         table,
	}
	if err != nil {
		p.fail(err)
	}
}

func (s *Server) showTaskForm(p *pageRequest, f taskForm) {
	cancel := "/tasks"
	if id := p.param("id"); id != "" {
		cancel += "/" + url.PathEscape(id)
	}
	p.data.Data = formData{
		Form:            f,
		StatusOptions:   p.options("status.", taskStatuses),
		PriorityOptions: p.options("priority.", taskPriorities),
		CancelHref:      cancel,
	}
}

func (s *Server) editTask(p *pageRequest) {
	id := p.param("id")
	if id == "" {
		s.showTaskForm(p, taskForm{
			Status:   model.TaskPending,
			Priority: model.PriorityMedium,
			EventID:  p.r.URL.Query().Get("eventId"),
		})
		return
	}
	t, err := s.svc.Tasks.Get(p.r.Context(), id)
	s.showTaskForm(p, taskFormOf(t, s.loc))
	if err != nil {
		p.fail(err)
	}
}

func (s *Server) saveTask(p *pageRequest) {
	if err := parseForm(p.r); err != nil {
		s.showTaskForm(p, taskForm{})
		p.invalid(fieldErrors{"": "validation.invalid"})
		return
	}
	f := readTaskForm(p.r)
	s.showTaskForm(p, f)

	if errs := s.validateForm(f); errs != nil {
		p.invalid(errs)
		return
	}

	ctx := p.r.Context()
	id := p.param("id")
	var base model.Task
	if id != "" {
		var err error
		if base, err = s.svc.Tasks.Get(ctx, id); err != nil {
			p.fail(err)
			return
		}
		base.ID = ""
	}
	t, errs := f.task(base, s.loc)
	if errs != nil {
		p.invalid(errs)
		return
	}

	if id != "" {
		if _, err := s.svc.Tasks.Update(ctx, id, t); err != nil {
			p.fail(err)
			return
		}
		p.seeOther("/tasks/" + url.PathEscape(id))
		return
	}
	created, err := s.svc.Tasks.Create(ctx, t)
	if err != nil {
		p.fail(err)
		return
	}
	if created.ID == "" {
		p.seeOther("/tasks")
		return
	}
	p.seeOther("/tasks/" + url.PathEscape(created.ID.String()))
}

func (s *Server) taskDetail(p *pageRequest) {
	t, err := s.svc.Tasks.Get(p.r.Context(), p.param("id"))
	if err != nil {
		p.data.Data = taskDetailData{}
		p.fail(err)
		return
	}
	p.data.Data = taskDetailData{Task: &t}
}

func (s *Server) deleteTask(p *pageRequest) {
	if err := parseForm(p.r); err != nil || formValue(p.r, "action") != "delete" {
		s.taskDetail(p)
		p.invalid(fieldErrors{"action": "validation.invalid"})
		return
	}
	if err := s.svc.Tasks.Delete(p.r.Context(), p.param("id")); err != nil {
		s.taskDetail(p)
		p.fail(err)
		return
	}
	p.seeOther("/tasks")
}

// quotes

func (s *Server) quotes(p *pageRequest) {
	ctx := p.r.Context()
	status := p.r.URL.Query().Get("status")

	var (
		quotes []model.Quote
		err    error
	)
	if status != "" {
		quotes, err = s.svc.Quotes.FilterByStatus(ctx, status)
	} else {
		quotes, err = s.svc.Quotes.List(ctx)
	}

	table := ui.Table{
		Columns: []string{
			p.data.T("label.title"),
			p.data.T("label.client"),
			p.data.T("label.event_date"),
			p.data.T("label.total"),
			p.data.T("label.status"),
		},
		Empty: p.data.T("empty.list"),
	}
	for _, q := range quotes {
		total := strconv.FormatFloat(q.Total(), 'f', 2, 64)
		if q.Currency != "" {
			total += " " + q.Currency
		}
		table.Rows = append(table.Rows, ui.Row{
			ID: q.ID.String(),
			Cells: []ui.Cell{
				{Text: q.Title, Href: "/quotes/detail/" + url.PathEscape(q.ID.String())},
				{Text: q.ClientName},
				{Text: s.formTime(q.EventDate.Time, true)},
				{Text: total},
				p.statusCell(q.Status),
			},
		})
	}

	p.data.Data = listData{
		Status:        status,
		StatusOptions: p.filterOptions("status.", quoteStatuses),
		Table:         table,
	}
	if err != nil {
		p.fail(err)
	}
}

func (s *Server) showQuoteForm(p *pageRequest, f quoteForm) {
	p.data.Data = formData{
		Form:          f,
		StatusOptions: p.options("status.", quoteStatuses),
		CancelHref:    "/quotes",
	}
}

func (s *Server) editQuote(p *pageRequest) {
	id := p.param("id")
	if id == "" {
		s.showQuoteForm(p, quoteForm{Status: model.QuotePending})
		return
	}
	q, err := s.svc.Quotes.Get(p.r.Context(), id)
	s.showQuoteForm(p, quoteFormOf(q, s.loc))
	if err != nil {
		p.fail(err)
	}
}

func (s *Server) saveQuote(p *pageRequest) {
	if err := parseForm(p.r); err != nil {
		s.showQuoteForm(p, quoteForm{})
		p.invalid(fieldErrors{"": "validation.invalid"})
		return
	}
	f := readQuoteForm(p.r)
	s.showQuoteForm(p, f)
	if errs := s.validateForm(f); errs != nil {
		p.invalid(errs)
		return
	}

	ctx := p.r.Context()
	id := p.param("id")
	var base model.Quote
	if id != "" {
		var err error
		if base, err = s.svc.Quotes.Get(ctx, id); err != nil {
			p.fail(err)
			return
		}
		base.ID = ""
	}
	q, errs := f.quote(base, s.loc)
	if errs != nil {
		p.invalid(errs)
		return
	}

	if id != "" {
		if _, err := s.svc.Quotes.Update(ctx, id, q); err != nil {
			p.fail(err)
			return
		}
		p.seeOther("/quotes/detail/" + url.PathEscape(id))
		return
	}
	created, err := s.svc.Quotes.Create(ctx, q)
	if err != nil {
		p.fail(err)
		return
	}
	if created.ID == "" {
		p.seeOther("/quotes")
		return
	}
	p.seeOther("/quotes/detail/" + url.PathEscape(created.ID.String()))
}

func (s *Server) quoteDetail(p *pageRequest) {
	q, err := s.svc.Quotes.Get(p.r.Context(), p.param("id"))
	if err != nil {
		p.data.Data = quoteDetailData{}
		p.fail(err)
		return
	}
	p.data.Data = quoteDetailData{Quote: &q}
}

// messages

func sortThread(msgs []model.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].SentAt.Before(msgs[j].SentAt.Time)
	})
}

func (s *Server) messages(p *pageRequest) {
	p.data.Data = threadData{Selected: p.param("conversationId")}
	me, ok := s.me(p)
	if !ok {
		return
	}
	s.loadMessages(p, me)
}

// loadMessages fills the conversation list and the selected thread for me.
func (s *Server) loadMessages(p *pageRequest, me model.Organizer) {
	selected := p.param("conversationId")
	data := threadData{Selected: selected, Me: me.ID.String()}

	g, ctx := errgroup.WithContext(p.r.Context())
	g.Go(func() (err error) {
		data.Conversations, err = s.svc.Conversations.ForParticipant(ctx, data.Me)
		return err
	})
	if selected != "" {
		g.Go(func() (err error) {
			data.Thread, err = s.svc.Messages.ByConversation(ctx, selected)
			return err
		})
	}
	err := g.Wait()
	sortThread(data.Thread)
	p.data.Data = data
	if err != nil {
		p.fail(err)
	}
}

func (s *Server) sendMessage(p *pageRequest) {
	conversation := p.param("conversationId")
	p.data.Data = threadData{Selected: conversation}
	me, ok := s.me(p)
	if !ok {
		return
	}
	if err := parseForm(p.r); err != nil || conversation == "" {
		s.loadMessages(p, me)
		p.invalid(fieldErrors{"content": "validation.invalid"})
		return
	}
	f := messageForm{Content: formValue(p.r, "content")}
	if errs := s.validateForm(f); errs != nil {
		s.loadMessages(p, me)
		p.invalid(errs)
		return
	}
	_, err := s.svc.Messages.Create(p.r.Context(), model.Message{
		ConversationID: model.ID(conversation),
		SenderID:       me.ID,
		Content:        f.Content,
		SentAt:         model.Timestamp{Time: s.now()},
	})
	if err != nil {
		s.loadMessages(p, me)
		p.fail(err)
		return
	}
	p.seeOther("/messages/" + url.PathEscape(conversation))
}

func (s *Server) chat(p *pageRequest) {
	p.data.Data = threadData{PeerName: p.param("userId")}
	me, ok := s.me(p)
	if !ok {
		return
	}
	s.loadChat(p, me)
}

// loadChat fills the direct thread between me and the peer in the path.
func (s *Server) loadChat(p *pageRequest, me model.Organizer) {
	peerID := p.param("userId")
	data := threadData{PeerName: peerID, Me: me.ID.String()}

	var sent, received []model.Message
	g, ctx := errgroup.WithContext(p.r.Context())
	g.Go(func() error {
		peer, err := s.svc.Profiles.Get(ctx, peerID)
		if err != nil {
			// Clients have no organizer profile.
			if service.IsNotFound(err) {
				return nil
			}
			return err
		}
		if peer.Name != "" {
			data.PeerName = peer.Name
		}
		data.PeerAvatar = peer.AvatarURL
		return nil
	})
	g.Go(func() (err error) {
		sent, err = s.svc.Messages.Between(ctx, data.Me, peerID)
		return err
	})
	g.Go(func() (err error) {
		received, err = s.svc.Messages.Between(ctx, peerID, data.Me)
		return err
	})
	err := g.Wait()

	data.Thread = append(sent, received...)
	sortThread(data.Thread)
	p.data.Data = data
	if err != nil {
		p.fail(err)
	}
}

func (s *Server) sendDirect(p *pageRequest) {
	peerID := p.param("userId")
	p.data.Data = threadData{PeerName: peerID}
	me, ok := s.me(p)
	if !ok {
		return
	}
	if err := parseForm(p.r); err != nil {
		s.loadChat(p, me)
		p.invalid(fieldErrors{"content": "validation.invalid"})
		return
	}
	f := messageForm{Content: formValue(p.r, "content")}
	if errs := s.validateForm(f); errs != nil {
		s.loadChat(p, me)
		p.invalid(errs)
		return
	}
	_, err := s.svc.Messages.Create(p.r.Context(), model.Message{
		SenderID:    me.ID,
		RecipientID: model.ID(peerID),
		Content:     f.Content,
		SentAt:      model.Timestamp{Time: s.now()},
	})
	if err != nil {
		s.loadChat(p, me)
		p.fail(err)
		return
	}
	p.seeOther("/chat/" + url.PathEscape(peerID))
}

// profile

func (s *Server) profile(p *pageRequest) {
	p.data.Data = profileData{}
	me, ok := s.me(p)
	if !ok {
		return
	}
	p.data.Data = profileData{Organizer: &me}
}

func (s *Server) profileEdit(p *pageRequest) {
	p.data.Data = formData{Form: profileForm{}}
	me, ok := s.me(p)
	if !ok {
		return
	}
	p.data.Data = formData{Form: profileFormOf(me), AvatarURL: me.AvatarURL}
}

func (s *Server) saveProfile(p *pageRequest) {
	if err := parseForm(p.r); err != nil {
		s.profileEdit(p)
		p.invalid(fieldErrors{"": "validation.invalid"})
		return
	}
	f := readProfileForm(p.r)
	p.data.Data = formData{Form: f}

	me, ok := s.me(p)
	if !ok {
		return
	}
	p.data.Data = formData{Form: f, AvatarURL: me.AvatarURL}

	errs := s.validateForm(f)
	var avatar *apiclient.File
	file, hdr, err := p.r.FormFile("avatar")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		errs = mergeErrors(errs, fieldErrors{"avatar": "validation.invalid"})
	case hdr.Size > maxUpload:
		file.Close()
		errs = mergeErrors(errs, fieldErrors{"avatar": "validation.max"})
	default:
		defer file.Close()
		avatar = &apiclient.File{Field: "avatar", Name: hdr.Filename, Content: file}
	}
	if errs != nil {
		p.invalid(errs)
		return
	}

	_, err = s.svc.Profiles.UpdateProfile(p.r.Context(), me.ID.String(), service.ProfileUpdate{
		Profile: f.apply(me),
		Avatar:  avatar,
	})
	if err != nil {
		p.fail(err)
		return
	}
	p.seeOther("/profile")
}

func mergeErrors(a, b fieldErrors) fieldErrors {
	if a == nil {
		return b
	}
	for k, v := range b {
		a[k] = v
	}
	return a
}

func (s *Server) organizerChat(p *pageRequest) {
	data := threadData{}
	p.data.Data = data
	me, ok := s.me(p)
	if !ok {
		return
	}
	convs, err := s.svc.Conversations.ForParticipant(p.r.Context(), me.ID.String())
	data.Conversations = convs
	data.Me = me.ID.String()
	p.data.Data = data
	if err != nil {
		p.fail(err)
	}
}

// albums

func (s *Server) albums(p *pageRequest) {
	p.data.Data = albumsData{}
	me, ok := s.me(p)
	if !ok {
		return
	}
	albums, err := s.svc.Albums.ByOrganizer(p.r.Context(), me.ID.String())
	p.data.Data = albumsData{Albums: albums}
	if err != nil {
		p.fail(err)
	}
}

func (s *Server) editAlbum(p *pageRequest) {
	id := p.param("id")
	if id == "" {
		p.data.Data = formData{Form: albumForm{}}
		return
	}
	a, err := s.svc.Albums.Get(p.r.Context(), id)
	p.data.Data = formData{Form: albumFormOf(a)}
	if err != nil {
		p.fail(err)
	}
}

func (s *Server) saveAlbum(p *pageRequest) {
	if err := parseForm(p.r); err != nil {
		p.data.Data = formData{Form: albumForm{}}
		p.invalid(fieldErrors{"": "validation.invalid"})
		return
	}
	f := readAlbumForm(p.r)
	p.data.Data = formData{Form: f}
	if errs := s.validateForm(f); errs != nil {
		p.invalid(errs)
		return
	}

	ctx := p.r.Context()
	if id := p.param("id"); id != "" {
		base, err := s.svc.Albums.Get(ctx, id)
		if err != nil {
			p.fail(err)
			return
		}
		base.ID = ""
		if _, err := s.svc.Albums.Update(ctx, id, f.apply(base)); err != nil {
			p.fail(err)
			return
		}
		p.seeOther("/profile/albums")
		return
	}

	me, ok := s.me(p)
	if !ok {
		return
	}
	album := f.apply(model.Album{OrganizerID: me.ID, CreatedAt: model.Timestamp{Time: s.now()}})
	if _, err := s.svc.Albums.Create(ctx, album); err != nil {
		p.fail(err)
		return
	}
	p.seeOther("/profile/albums")
}
