package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devevents/internal/domain"
)

type eventRepository struct {
	db DatabaseProvider
}

func NewEventRepository(db DatabaseProvider) domain.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.db.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(eventsCollection), nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	doc := newEventDocument(e)
	doc.ID = primitive.NewObjectID()
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: event with slug %q already exists", domain.ErrConflict, e.Slug)
		}
		return err
	}
	e.ID = doc.ID.Hex()
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed identity cannot reference a stored event.
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	return r.findOne(ctx, bson.D{{Key: "slug", Value: slug}})
}

func (r *eventRepository) findOne(ctx context.Context, filter bson.D) (*domain.Event, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}
	var doc eventDocument
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var docs []eventDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	events := make([]*domain.Event, 0, len(docs))
	for _, d := range docs {
		events = append(events, d.toDomain())
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	oid, err := primitive.ObjectIDFromHex(e.ID)
	if err != nil {
		return domain.ErrNotFound
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	doc := newEventDocument(e)
	doc.ID = oid
	res, err := coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: event with slug %q already exists", domain.ErrConflict, e.Slug)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
