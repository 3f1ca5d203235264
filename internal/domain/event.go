package domain

import (
	"context"
	"strings"
	"time"
)

// EventMode is how attendees take part in an event.
type EventMode string

const (
	EventModeOnline  EventMode = "online"
	EventModeOffline EventMode = "offline"
	EventModeHybrid  EventMode = "hybrid"
)

// Event represents a listed event.
// swagger:model Event
type Event struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title" validate:"notblank"`
	Slug        string    `json:"slug" validate:"slug"`
	Description string    `json:"description" validate:"notblank"`
	Overview    string    `json:"overview" validate:"notblank"`
	Image       string    `json:"image" validate:"notblank"`
	Venue       string    `json:"venue" validate:"notblank"`
	Location    string    `json:"location" validate:"notblank"`
	Date        string    `json:"date" validate:"notblank"`
	Time        string    `json:"time" validate:"notblank"`
	Mode        EventMode `json:"mode" validate:"oneof=online offline hybrid"`
	Audience    string    `json:"audience" validate:"notblank"`
	Agenda      []string  `json:"agenda" validate:"min=1"`
	Organizer   string    `json:"organizer" validate:"notblank"`
	Tags        []string  `json:"tags" validate:"min=1"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Prepare normalizes the event and validates it in one pass, replacing a store-side pre-save hook.
// prev is the currently persisted version, or nil when the event is new. Slug, date and time are
// only re-derived when title, date or time differ from prev.
// It returns nil or a *ValidationError listing every failed rule in field order.
func (e *Event) Prepare(prev *Event) error {
	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)
	e.Overview = strings.TrimSpace(e.Overview)
	e.Venue = strings.TrimSpace(e.Venue)
	e.Location = strings.TrimSpace(e.Location)
	e.Audience = strings.TrimSpace(e.Audience)
	e.Organizer = strings.TrimSpace(e.Organizer)
	e.Mode = EventMode(strings.TrimSpace(string(e.Mode)))
	e.Agenda = compactItems(e.Agenda)
	e.Tags = compactItems(e.Tags)

	var errs []FieldError
	if prev == nil || e.Title != prev.Title {
		e.Slug = Slugify(e.Title)
	} else {
		e.Slug = prev.Slug
	}
	if (prev == nil || e.Date != prev.Date) && strings.TrimSpace(e.Date) != "" {
		date, err := NormalizeDate(e.Date)
		if err != nil {
			errs = append(errs, FieldError{Field: "date", Message: err.Error()})
		} else {
			e.Date = date
		}
	}
	if (prev == nil || e.Time != prev.Time) && strings.TrimSpace(e.Time) != "" {
		t, err := NormalizeTime(e.Time)
		if err != nil {
			errs = append(errs, FieldError{Field: "time", Message: err.Error()})
		} else {
			e.Time = t
		}
	}
	errs = append(errs, validateStruct(e)...)
	if e.Title == "" {
		// An empty title is reported once, on the title itself.
		errs = dropField(errs, "slug")
	}
	return newValidationError(e, errs)
}

// compactItems trims every item and drops blank ones, keeping order.
func compactItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

// EventPatch holds the fields of a re-save. Nil fields are left unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	Overview    *string
	Image       *string
	Venue       *string
	Location    *string
	Date        *string
	Time        *string
	Mode        *EventMode
	Audience    *string
	Agenda      []string
	Organizer   *string
	Tags        []string
}

// Apply returns a copy of e with the non-nil patch fields set.
func (p EventPatch) Apply(e *Event) *Event {
	out := *e
	setIf := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setIf(&out.Title, p.Title)
	setIf(&out.Description, p.Description)
	setIf(&out.Overview, p.Overview)
	setIf(&out.Image, p.Image)
	setIf(&out.Venue, p.Venue)
	setIf(&out.Location, p.Location)
	setIf(&out.Date, p.Date)
	setIf(&out.Time, p.Time)
	setIf(&out.Audience, p.Audience)
	setIf(&out.Organizer, p.Organizer)
	if p.Mode != nil {
		out.Mode = *p.Mode
	}
	if p.Agenda != nil {
		out.Agenda = append([]string(nil), p.Agenda...)
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	return &out
}

// EventRepository defines the interface for event storage.
// Create and Update return ErrConflict when the slug is already taken.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	// List returns all events, newest createdAt first.
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
}

// EventService defines event listing and creation operations.
type EventService interface {
	// CreateEvent uploads image, stores its URL on event and persists the prepared event.
	CreateEvent(ctx context.Context, event *Event, image *Asset) error
	ListEvents(ctx context.Context) ([]*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	UpdateEvent(ctx context.Context, slug string, patch EventPatch) (*Event, error)
}
