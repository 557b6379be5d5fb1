package web

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"eventgo/internal/ics"
	"eventgo/internal/model"
)

const (
	maxFormMemory = 8 << 20
	maxUpload     = 5 << 20
)

// newValidator reports field errors under their form names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// nonneg rejects negative numbers. Non-numeric values are left to the
	// number and numeric tags.
	_ = v.RegisterValidation("nonneg", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseFloat(fl.Field().String(), 64)
		return err != nil || n >= 0
	})
	return v
}

// fieldErrors maps validation failures to message keys per form field.
type fieldErrors map[string]string

func (s *Server) validateForm(form any) fieldErrors {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fieldErrors{"": "validation.invalid"}
	}
	out := make(fieldErrors, len(verrs))
	for _, e := range verrs {
		// dive errors come back as "photos[2]"
		name := e.Field()
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = messageKey(e.Tag())
	}
	return out
}

func messageKey(tag string) string {
	switch tag {
	case "required":
		return "validation.required"
	case "email":
		return "validation.email"
	case "url":
		return "validation.url"
	case "oneof":
		return "validation.oneof"
	case "max":
		return "validation.max"
	case "number", "numeric":
		return "validation.number"
	case "nonneg":
		return "validation.min"
	default:
		return "validation.invalid"
	}
}

// parseForm handles both urlencoded and multipart bodies.
func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}

func formValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

func formBool(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.PostFormValue(name))
	return b
}

const (
	inputDateTime = "2006-01-02T15:04"
	inputDate     = "2006-01-02"
)

func inputTime(ts model.Timestamp, layout string, loc *time.Location) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(loc).Format(layout)
}

type eventForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"max=5000"`
	Location    string `form:"location" validate:"max=200"`
	Category    string `form:"category" validate:"max=100"`
	Status      string `form:"status" validate:"omitempty,oneof=draft published cancelled completed"`
	Start       string `form:"start" validate:"required"`
	End         string `form:"end"`
	AllDay      bool   `form:"all_day"`
	Recurrence  string `form:"recurrence" validate:"max=500"`
	Capacity    string `form:"capacity" validate:"omitempty,number,nonneg"`
	Price       string `form:"price" validate:"omitempty,numeric,nonneg"`
}

func readEventForm(r *http.Request) eventForm {
	return eventForm{
		Title:       formValue(r, "title"),
		Description: formValue(r, "description"),
		Location:    formValue(r, "location"),
		Category:    formValue(r, "category"),
		Status:      formValue(r, "status"),
		Start:       formValue(r, "start"),
		End:         formValue(r, "end"),
		AllDay:      formBool(r, "all_day"),
		Recurrence:  formValue(r, "recurrence"),
		Capacity:    formValue(r, "capacity"),
		Price:       formValue(r, "price"),
	}
}

// event converts a validated form. Date and recurrence problems are
// reported per field.
func (f eventForm) event(loc *time.Location) (model.Event, fieldErrors) {
	errs := fieldErrors{}
	ev := model.Event{
		Title:       f.Title,
		Description: f.Description,
		Location:    f.Location,
		Category:    f.Category,
		Status:      f.Status,
		AllDay:      f.AllDay,
		Recurrence:  f.Recurrence,
	}
	if ev.Status == "" {
		ev.Status = model.EventDraft
	}

	var err error
	if ev.StartDate, err = model.ParseTimestamp(f.Start, loc); err != nil {
		errs["start"] = "validation.date"
	}
	if ev.EndDate, err = model.ParseTimestamp(f.End, loc); err != nil {
		errs["end"] = "validation.date"
	}
	if !ev.EndDate.IsZero() && !ev.StartDate.IsZero() && ev.EndDate.Before(ev.StartDate.Time) {
		errs["end"] = "validation.end_before"
	}
	if err := ics.ValidateRule(f.Recurrence); err != nil {
		errs["recurrence"] = "validation.rrule"
	}
	if f.Capacity != "" {
		if ev.Capacity, err = strconv.Atoi(f.Capacity); err != nil {
			errs["capacity"] = "validation.number"
		}
	}
	if f.Price != "" {
		if ev.Price, err = strconv.ParseFloat(f.Price, 64); err != nil {
			errs["price"] = "validation.number"
		}
	}
	if len(errs) > 0 {
		return ev, errs
	}
	return ev, nil
}

type taskForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"max=5000"`
	Status      string `form:"status" validate:"required,oneof=pending in_progress completed"`
	Priority    string `form:"priority" validate:"required,oneof=low medium high"`
	Due         string `form:"due"`
	Assignee    string `form:"assignee" validate:"max=100"`
	EventID     string `form:"event_id"`
}

func readTaskForm(r *http.Request) taskForm {
	return taskForm{
		Title:       formValue(r, "title"),
		Description: formValue(r, "description"),
		Status:      formValue(r, "status"),
		Priority:    formValue(r, "priority"),
		Due:         formValue(r, "due"),
		Assignee:    formValue(r, "assignee"),
		EventID:     formValue(r, "event_id"),
	}
}

func taskFormOf(t model.Task, loc *time.Location) taskForm {
	return taskForm{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Due:         inputTime(t.DueDate, inputDate, loc),
		Assignee:    t.Assignee,
		EventID:     t.EventID.String(),
	}
}

// task applies the form onto base so fields the form does not show survive
// an edit.
func (f taskForm) task(base model.Task, loc *time.Location) (model.Task, fieldErrors) {
	t := base
	t.Title = f.Title
	t.Description = f.Description
	t.Status = f.Status
	t.Priority = f.Priority
	t.Assignee = f.Assignee
	t.EventID = model.ID(f.EventID)

	if f.Due == inputTime(base.DueDate, inputDate, loc) {
		return t, nil
	}
	due, err := model.ParseTimestamp(f.Due, loc)
	if err != nil {
		return t, fieldErrors{"due": "validation.date"}
	}
	t.DueDate = due
	return t, nil
}

type quoteForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	ClientName  string `form:"client_name" validate:"required,max=200"`
	ClientEmail string `form:"client_email" validate:"omitempty,email"`
	EventType   string `form:"event_type" validate:"max=100"`
	EventDate   string `form:"event_date"`
	Amount      string `form:"amount" validate:"required,numeric,nonneg"`
	Currency    string `form:"currency" validate:"omitempty,len=3"`
	Status      string `form:"status" validate:"required,oneof=pending approved rejected"`
	Notes       string `form:"notes" validate:"max=5000"`
}

func readQuoteForm(r *http.Request) quoteForm {
	return quoteForm{
		Title:       formValue(r, "title"),
		ClientName:  formValue(r, "client_name"),
		ClientEmail: formValue(r, "client_email"),
		EventType:   formValue(r, "event_type"),
		EventDate:   formValue(r, "event_date"),
		Amount:      formValue(r, "amount"),
		Currency:    strings.ToUpper(formValue(r, "currency")),
		Status:      formValue(r, "status"),
		Notes:       formValue(r, "notes"),
	}
}

func quoteFormOf(q model.Quote, loc *time.Location) quoteForm {
	return quoteForm{
		Title:       q.Title,
		ClientName:  q.ClientName,
		ClientEmail: q.ClientEmail,
		EventType:   q.EventType,
		EventDate:   inputTime(q.EventDate, inputDate, loc),
		Amount:      strconv.FormatFloat(q.Amount, 'f', 2, 64),
		Currency:    q.Currency,
		Status:      q.Status,
		Notes:       q.Notes,
	}
}

// quote applies the form onto base so line items survive an edit.
func (f quoteForm) quote(base model.Quote, loc *time.Location) (model.Quote, fieldErrors) {
	q := base
	q.Title = f.Title
	q.ClientName = f.ClientName
	q.ClientEmail = f.ClientEmail
	q.EventType = f.EventType
	q.Currency = f.Currency
	q.Status = f.Status
	q.Notes = f.Notes
	var err error
	if q.Amount, err = strconv.ParseFloat(f.Amount, 64); err != nil {
		return q, fieldErrors{"amount": "validation.number"}
	}

	// An untouched date keeps the backend's own representation.
	if f.EventDate == inputTime(base.EventDate, inputDate, loc) {
		return q, nil
	}
	date, err := model.ParseTimestamp(f.EventDate, loc)
	if err != nil {
		return q, fieldErrors{"event_date": "validation.date"}
	}
	q.EventDate = date
	return q, nil
}

type profileForm struct {
	Name     string `form:"name" validate:"required,max=200"`
	Email    string `form:"email" validate:"required,email"`
	Phone    string `form:"phone" validate:"max=40"`
	Company  string `form:"company" validate:"max=200"`
	Bio      string `form:"bio" validate:"max=2000"`
	Location string `form:"location" validate:"max=200"`
	Website  string `form:"website" validate:"omitempty,url"`
}

func readProfileForm(r *http.Request) profileForm {
	return profileForm{
		Name:     formValue(r, "name"),
		Email:    formValue(r, "email"),
		Phone:    formValue(r, "phone"),
		Company:  formValue(r, "company"),
		Bio:      formValue(r, "bio"),
		Location: formValue(r, "location"),
		Website:  formValue(r, "website"),
	}
}

func profileFormOf(o model.Organizer) profileForm {
	return profileForm{
		Name:     o.Name,
		Email:    o.Email,
		Phone:    o.Phone,
		Company:  o.Company,
		Bio:      o.Bio,
		Location: o.Location,
		Website:  o.Website,
	}
}

func (f profileForm) apply(o model.Organizer) model.Organizer {
	o.Name = f.Name
	o.Email = f.Email
	o.Phone = f.Phone
	o.Company = f.Company
	o.Bio = f.Bio
	o.Location = f.Location
	o.Website = f.Website
	return o
}

type albumForm struct {
	Title       string   `form:"title" validate:"required,max=200"`
	Description string   `form:"description" validate:"max=2000"`
	CoverURL    string   `form:"cover_url" validate:"omitempty,url"`
	Photos      string   `form:"photos"`
	PhotoURLs   []string `form:"photos" validate:"dive,url"`
}

func readAlbumForm(r *http.Request) albumForm {
	f := albumForm{
		Title:       formValue(r, "title"),
		Description: formValue(r, "description"),
		CoverURL:    formValue(r, "cover_url"),
		Photos:      formValue(r, "photos"),
	}
	for _, line := range strings.Split(f.Photos, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			f.PhotoURLs = append(f.PhotoURLs, line)
		}
	}
	return f
}

func albumFormOf(a model.Album) albumForm {
	return albumForm{
		Title:       a.Title,
		Description: a.Description,
		CoverURL:    a.CoverURL,
		Photos:      strings.Join(a.Photos, "\n"),
		PhotoURLs:   a.Photos,
	}
}

func (f albumForm) apply(a model.Album) model.Album {
	a.Title = f.Title
	a.Description = f.Description
	a.CoverURL = f.CoverURL
	a.Photos = f.PhotoURLs
	return a
}

type messageForm struct {
	Content string `form:"content" validate:"required,max=4000"`
}

type deleteForm struct {
	IDs []string `form:"ids" validate:"required,min=1,dive,required"`
}

func readIDs(r *http.Request) deleteForm {
	var f deleteForm
	for _, id := range r.PostForm["ids"] {
		if id = strings.TrimSpace(id); id != "" {
			f.IDs = append(f.IDs, id)
		}
	}
	return f
}
