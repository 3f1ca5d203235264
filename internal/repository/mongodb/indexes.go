package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. Creating an index that already
// exists with the same definition is a no-op, so this is safe on every connect.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	events := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("slug_unique")},
		{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index().SetName("date")},
		{Keys: bson.D{{Key: "tags", Value: 1}}, Options: options.Index().SetName("tags")},
	}
	if _, err := db.Collection(eventsCollection).Indexes().CreateMany(ctx, events); err != nil {
		return fmt.Errorf("create event indexes: %w", err)
	}

	bookings := []mongo.IndexModel{
		{Keys: bson.D{{Key: "eventId", Value: 1}, {Key: "email", Value: 1}}, Options: options.Index().SetName("event_email")},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("created_at_desc")},
	}
	if _, err := db.Collection(bookingsCollection).Indexes().CreateMany(ctx, bookings); err != nil {
		return fmt.Errorf("create booking indexes: %w", err)
	}
	return nil
}
