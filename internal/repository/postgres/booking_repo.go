package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"devevents/internal/domain"
)

type bookingRepository struct {
	db DBProvider
}

func NewBookingRepository(db DBProvider) domain.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if _, err := uuid.Parse(b.EventID); err != nil {
		return fmt.Errorf("event with ID %s: %w", b.EventID, domain.ErrEventNotFound)
	}
	db, err := r.db.DB(ctx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO bookings (event_id, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return db.QueryRowContext(ctx, query, b.EventID, b.Email, b.CreatedAt, b.UpdatedAt).Scan(&b.ID)
}
