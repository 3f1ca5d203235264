package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"devevents/internal/domain"
)

// EventImageFolder is the asset-store folder event images are uploaded into.
const EventImageFolder = "events"

type eventService struct {
	eventRepo      domain.EventRepository
	assets         domain.AssetStore
	publisher      domain.Publisher
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(
	eventRepo domain.EventRepository,
	assets domain.AssetStore,
	publisher domain.Publisher,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		assets:         assets,
		publisher:      publisher,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event, image *domain.Asset) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if image == nil || len(image.Data) == 0 {
		return &domain.ValidationError{Errors: []domain.FieldError{{Field: "image", Message: "image is required"}}}
	}
	if image.Folder == "" {
		image.Folder = EventImageFolder
	}

	url, err := s.assets.Upload(ctx, image)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpload, err)
	}
	event.Image = url

	if err := event.Prepare(nil); err != nil {
		return err
	}
	now := s.now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return err
		}
		return fmt.Errorf("create event: %w", err)
	}

	publish(ctx, s.publisher, s.logger, domain.MessageEventCreated, event)
	return nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// UpdateEvent re-saves the event stored under slug with patch applied. Slug, date and time are
// re-derived only when the patch changes title, date or time.
func (s *eventService) UpdateEvent(ctx context.Context, slug string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	prev, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	next := patch.Apply(prev)
	if err := next.Prepare(prev); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now().UTC()

	if err := s.eventRepo.Update(ctx, next); err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	publish(ctx, s.publisher, s.logger, domain.MessageEventUpdated, next)
	return next, nil
}

// publish notifies downstream consumers of a committed write. Failures are logged, never returned.
func publish(ctx context.Context, p domain.Publisher, logger *slog.Logger, msgType domain.MessageType, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, msgType, data); err != nil {
		logger.WarnContext(ctx, "publish failed", "type", string(msgType), "err", err)
	}
}
