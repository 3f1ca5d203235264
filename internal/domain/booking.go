package domain

import (
	"context"
	"strings"
	"time"
)

// Booking is an email address reserved against an event.
// swagger:model Booking
type Booking struct {
	ID        string    `json:"_id"`
	EventID   string    `json:"eventId" validate:"notblank"`
	Email     string    `json:"email" validate:"notblank,rfc5322"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBooking returns a new Booking. ID is set by the repository on create.
func NewBooking(eventID, email string, createdAt, updatedAt time.Time) *Booking {
	return &Booking{
		EventID:   eventID,
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Prepare normalizes the booking and validates it. It does not check that the event exists;
// that needs the store and is done by BookingService.
func (b *Booking) Prepare() error {
	b.EventID = strings.TrimSpace(b.EventID)
	b.Email = NormalizeEmail(b.Email)
	return newValidationError(b, validateStruct(b))
}

// BookingRepository defines storage operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
}

// BookingService defines booking operations.
type BookingService interface {
	// CreateBooking persists a booking after checking that the referenced event exists.
	// It returns an error wrapping ErrEventNotFound when it does not.
	CreateBooking(ctx context.Context, eventID, email string) (*Booking, error)
}
