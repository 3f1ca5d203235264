package controllers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"devevents/internal/delivery/http/helpers"
	"devevents/internal/domain"
)

// maxUploadMemory bounds the in-memory part of a multipart event form; larger parts spill to disk.
const maxUploadMemory = 10 << 20

// maxUploadBody bounds the whole multipart event form.
const maxUploadBody = 32 << 20

// EventResponse is the body of single-event success responses.
type EventResponse struct {
	Message string        `json:"message"`
	Event   *domain.Event `json:"event"`
}

// EventListResponse is the body of GET /events.
type EventListResponse struct {
	Message string          `json:"message"`
	Events  []*domain.Event `json:"events"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Create an event from a multipart form. The image file is uploaded to the asset host and its URL stored on the event. Slug, date and time are derived server-side. agenda and tags accept repeated values or a single JSON array.
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param overview formData string true "Overview"
// @Param venue formData string true "Venue"
// @Param location formData string true "Location"
// @Param date formData string true "Date, any parseable format"
// @Param time formData string true "Time, H:MM AM/PM"
// @Param mode formData string true "online, offline or hybrid"
// @Param audience formData string true "Audience"
// @Param agenda formData []string true "Agenda items" collectionFormat(multi)
// @Param organizer formData string true "Organizer"
// @Param tags formData []string true "Tags" collectionFormat(multi)
// @Param image formData file true "Event image"
// @Success 201 {object} controllers.EventResponse
// @Failure 400 {object} helpers.ErrorResponse "bad form or missing image"
// @Failure 500 {object} helpers.ErrorResponse "upload failure, failed validation, duplicate slug or persistence failure"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid form data", err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	image, err := readImage(r)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			helpers.WriteJSONError(w, http.StatusBadRequest, "Image is required", "")
			return
		}
		helpers.WriteJSONError(w, http.StatusBadRequest, "Invalid form data", err.Error())
		return
	}

	event := eventFromForm(r)
	if err := c.Service.CreateEvent(r.Context(), event, image); err != nil {
		switch {
		case errors.Is(err, domain.ErrUpload):
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to upload image", err.Error())
		case isMissingImage(err):
			helpers.WriteJSONError(w, http.StatusBadRequest, "Image is required", "")
		case errors.Is(err, domain.ErrInvalidInput):
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSON(w, http.StatusInternalServerError, helpers.ErrorResponse{
				Message: "Failed to create event",
				Error:   err.Error(),
				Errors:  domain.FieldErrors(err),
			})
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to create event", err.Error())
		}
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, EventResponse{Message: "Event created successfully", Event: event})
}

func isMissingImage(err error) bool {
	fields := domain.FieldErrors(err)
	return len(fields) == 1 && fields[0].Field == "image"
}

// readImage returns the "image" file of a parsed multipart form.
func readImage(r *http.Request) (*domain.Asset, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return nil, http.ErrMissingFile
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &domain.Asset{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func eventFromForm(r *http.Request) *domain.Event {
	form := r.MultipartForm.Value
	get := func(key string) string {
		if v := form[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	return &domain.Event{
		Title:       get("title"),
		Description: get("description"),
		Overview:    get("overview"),
		Venue:       get("venue"),
		Location:    get("location"),
		Date:        get("date"),
		Time:        get("time"),
		Mode:        domain.EventMode(get("mode")),
		Audience:    get("audience"),
		Agenda:      helpers.FormList(form["agenda"]),
		Organizer:   get("organizer"),
		Tags:        helpers.FormList(form["tags"]),
	}
}

// ListEvents godoc
// @Summary List events
// @Description Returns every event, newest first.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventListResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to get events", err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusOK, EventListResponse{Message: "Events fetched successfully", Events: events})
}

// pathSlug returns the trimmed {slug} path value, writing a 400 and returning false when it is
// missing or malformed.
func pathSlug(w http.ResponseWriter, r *http.Request) (string, bool) {
	slug := strings.TrimSpace(r.PathValue("slug"))
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "Slug parameter is required", "")
		return "", false
	}
	if !domain.IsValidSlug(slug) {
		helpers.WriteJSONError(w, http.StatusBadRequest,
			"Invalid slug format. Slug must contain only lowercase letters, numbers, and hyphens", "")
		return "", false
	}
	return slug, true
}

// GetEventBySlug godoc
// @Summary Get an event by slug
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.EventResponse
// @Failure 400 {object} helpers.ErrorResponse "missing or malformed slug"
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{slug} [get]
func (c *EventController) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	slug, ok := pathSlug(w, r)
	if !ok {
		return
	}
	event, err := c.Service.GetEventBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("Event with slug '%s' not found", slug), "")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to fetch event", err.Error())
		return
	}
	helpers.WriteJSON(w, http.StatusOK, EventResponse{Message: "Event fetched successfully", Event: event})
}

// UpdateEventRequest is the body of PATCH /events/{slug}. Omitted fields are unchanged.
type UpdateEventRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Overview    *string  `json:"overview"`
	Image       *string  `json:"image"`
	Venue       *string  `json:"venue"`
	Location    *string  `json:"location"`
	Date        *string  `json:"date"`
	Time        *string  `json:"time"`
	Mode        *string  `json:"mode"`
	Audience    *string  `json:"audience"`
	Agenda      []string `json:"agenda"`
	Organizer   *string  `json:"organizer"`
	Tags        []string `json:"tags"`
}

// Validate implements Validator. Field rules are applied by the service on the merged event;
// only an image URL outside https is rejected up front.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Image != nil && !strings.HasPrefix(*u.Image, "https://") {
		errs = append(errs, "image must be an https URL")
	}
	return errs
}

func (u UpdateEventRequest) patch() domain.EventPatch {
	p := domain.EventPatch{
		Title:       u.Title,
		Description: u.Description,
		Overview:    u.Overview,
		Image:       u.Image,
		Venue:       u.Venue,
		Location:    u.Location,
		Date:        u.Date,
		Time:        u.Time,
		Audience:    u.Audience,
		Agenda:      u.Agenda,
		Organizer:   u.Organizer,
		Tags:        u.Tags,
	}
	if u.Mode != nil {
		mode := domain.EventMode(*u.Mode)
		p.Mode = &mode
	}
	return p
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Re-saves an event with the given fields. The slug is re-derived only when the title changes; date and time are re-normalized only when they change.
// @Tags events
// @Accept json
// @Produce json
// @Param slug path string true "Event slug"
// @Param event body UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /events/{slug} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	slug, ok := pathSlug(w, r)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), slug, req.patch())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteValidationError(w, "Event validation failed", err)
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("Event with slug '%s' not found", slug), "")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to update event", err.Error())
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, EventResponse{Message: "Event updated successfully", Event: event})
}
