package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"devevents/internal/domain"
)

type bookingService struct {
	bookingRepo    domain.BookingRepository
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	publisher      domain.Publisher
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewBookingService(
	bookingRepo domain.BookingRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	publisher domain.Publisher,
	logger *slog.Logger,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		emailService:   emailService,
		publisher:      publisher,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, eventID, email string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now().UTC()
	booking := domain.NewBooking(eventID, email, now, now)
	if err := booking.Prepare(); err != nil {
		return nil, err
	}

	// The event is looked up on every write; there is no foreign key to lean on.
	event, err := s.eventRepo.GetByID(ctx, booking.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("event with ID %s: %w", booking.EventID, domain.ErrEventNotFound)
		}
		return nil, fmt.Errorf("look up event %s: %w", booking.EventID, err)
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	publish(ctx, s.publisher, s.logger, domain.MessageBookingCreated, booking)
	s.sendConfirmation(ctx, booking, event)
	return booking, nil
}

func (s *bookingService) sendConfirmation(ctx context.Context, b *domain.Booking, e *domain.Event) {
	if s.emailService == nil {
		return
	}
	data := &domain.BookingConfirmationEmailData{
		Email:      b.Email,
		EventTitle: e.Title,
		EventSlug:  e.Slug,
		Date:       e.Date,
		Time:       e.Time,
		Venue:      e.Venue,
		Location:   e.Location,
		Mode:       e.Mode,
	}
	if err := s.emailService.SendBookingConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "booking confirmation not sent", "booking_id", b.ID, "err", err)
	}
}
