package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"devevents/internal/domain"
)

type bookingRepository struct {
	db DatabaseProvider
}

func NewBookingRepository(db DatabaseProvider) domain.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	eventID, err := primitive.ObjectIDFromHex(b.EventID)
	if err != nil {
		return fmt.Errorf("event with ID %s: %w", b.EventID, domain.ErrEventNotFound)
	}
	db, err := r.db.Database(ctx)
	if err != nil {
		return err
	}
	doc := bookingDocument{
		ID:        primitive.NewObjectID(),
		EventID:   eventID,
		Email:     b.Email,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if _, err := db.Collection(bookingsCollection).InsertOne(ctx, doc); err != nil {
		return err
	}
	b.ID = doc.ID.Hex()
	return nil
}
