package service

import (
	"context"
	"net/http"
	"net/url"

	"eventgo/internal/apiclient"
	"eventgo/internal/model"
)

// Backend collection paths.
const (
	EventsPath        = "/events"
	OrganizersPath    = "/organizers"
	TasksPath         = "/tasks"
	QuotesPath        = "/quotes"
	MessagesPath      = "/messages"
	ConversationsPath = "/conversations"
	AlbumsPath        = "/albums"
)

// Services bundles every resource service the pages use.
type Services struct {
	Events        *Events
	Profiles      *Profiles
	Tasks         *Tasks
	Quotes        *Quotes
	Messages      *Messages
	Conversations *Conversations
	Albums        *Albums
}

// New builds all resource services on top of one transport.
func New(doer Doer) *Services {
	return &Services{
		Events:        &Events{Resource: NewResource[model.Event](doer, EventsPath)},
		Profiles:      &Profiles{Resource: NewResource[model.Organizer](doer, OrganizersPath), doer: doer},
		Tasks:         &Tasks{Resource: NewResource[model.Task](doer, TasksPath)},
		Quotes:        &Quotes{Resource: NewResource[model.Quote](doer, QuotesPath)},
		Messages:      &Messages{Resource: NewResource[model.Message](doer, MessagesPath)},
		Conversations: &Conversations{Resource: NewResource[model.Conversation](doer, ConversationsPath)},
		Albums:        &Albums{Resource: NewResource[model.Album](doer, AlbumsPath)},
	}
}

// Events is the event resource service.
type Events struct {
	*Resource[model.Event]
}

// Profiles is the organizer profile service.
type Profiles struct {
	*Resource[model.Organizer]
	doer Doer
}

// Current returns the profile of the signed-in organizer (GET /organizers/me).
func (p *Profiles) Current(ctx context.Context) (model.Organizer, error) {
	return call[model.Organizer](ctx, p.doer, apiclient.Request{Method: http.MethodGet, Path: p.Path() + "/me"})
}

// ProfileUpdate is the editable part of a profile plus an optional avatar.
type ProfileUpdate struct {
	Profile model.Organizer
	// Avatar, when non-nil, turns the update into a multipart upload.
	Avatar *apiclient.File
}

// UpdateProfile sends JSON for plain edits and multipart/form-data when an
// avatar file is attached.
func (p *Profiles) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (model.Organizer, error) {
	if upd.Avatar == nil {
		return p.Update(ctx, id, upd.Profile)
	}

	form := apiclient.NewForm().
		Set("name", upd.Profile.Name).
		Set("email", upd.Profile.Email).
		Set("phone", upd.Profile.Phone).
		Set("company", upd.Profile.Company).
		Set("bio", upd.Profile.Bio).
		Set("location", upd.Profile.Location).
		Set("website", upd.Profile.Website)
	form.AddFile(upd.Avatar.Field, upd.Avatar.Name, upd.Avatar.Content)
	return p.Update(ctx, id, form)
}

// Tasks is the task resource service.
type Tasks struct {
	*Resource[model.Task]
}

// ForEvent lists the tasks attached to one event.
func (t *Tasks) ForEvent(ctx context.Context, eventID string) ([]model.Task, error) {
	return t.Query(ctx, url.Values{"eventId": {eventID}})
}

// Quotes is the quote resource service.
type Quotes struct {
	*Resource[model.Quote]
}

// Messages is the message service, covering conversation and direct messages.
type Messages struct {
	*Resource[model.Message]
}

// ByConversation lists the messages of one conversation.
func (m *Messages) ByConversation(ctx context.Context, conversationID string) ([]model.Message, error) {
	return m.Query(ctx, url.Values{"conversationId": {conversationID}})
}

// Between lists the direct messages sent from one user to another.
func (m *Messages) Between(ctx context.Context, senderID, recipientID string) ([]model.Message, error) {
	return m.Query(ctx, url.Values{"senderId": {senderID}, "recipientId": {recipientID}})
}

// Conversations is the conversation resource service.
type Conversations struct {
	*Resource[model.Conversation]
}

// ForParticipant lists the conversations a user takes part in.
func (c *Conversations) ForParticipant(ctx context.Context, userID string) ([]model.Conversation, error) {
	return c.Query(ctx, url.Values{"participants_like": {userID}})
}

// Albums is the photo album resource service.
type Albums struct {
	*Resource[model.Album]
}

// ByOrganizer lists the albums of one organizer.
func (a *Albums) ByOrganizer(ctx context.Context, organizerID string) ([]model.Album, error) {
	return a.Query(ctx, url.Values{"organizerId": {organizerID}})
}
