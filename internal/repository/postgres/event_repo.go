package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"devevents/internal/domain"
)

const eventColumns = `id, title, slug, description, overview, image, venue, location, date, time,
	mode, audience, agenda, organizer, tags, created_at, updated_at`

type eventRepository struct {
	db DBProvider
}

func NewEventRepository(db DBProvider) domain.EventRepository {
	return &eventRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var mode string
	err := row.Scan(
		&e.ID, &e.Title, &e.Slug, &e.Description, &e.Overview, &e.Image, &e.Venue, &e.Location,
		&e.Date, &e.Time, &mode, &e.Audience, pq.Array(&e.Agenda), &e.Organizer, pq.Array(&e.Tags),
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Mode = domain.EventMode(mode)
	if e.Agenda == nil {
		e.Agenda = []string{}
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	db, err := r.db.DB(ctx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO events (title, slug, description, overview, image, venue, location, date, time,
			mode, audience, agenda, organizer, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	err = db.QueryRowContext(ctx, query,
		e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue, e.Location, e.Date, e.Time,
		string(e.Mode), e.Audience, pq.Array(e.Agenda), e.Organizer, pq.Array(e.Tags), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: event with slug %q already exists", domain.ErrConflict, e.Slug)
		}
		return err
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return r.getOne(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	return r.getOne(ctx, `SELECT `+eventColumns+` FROM events WHERE slug = $1`, slug)
}

func (r *eventRepository) getOne(ctx context.Context, query string, arg string) (*domain.Event, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}
	e, err := scanEvent(db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	db, err := r.db.DB(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	if _, err := uuid.Parse(e.ID); err != nil {
		return domain.ErrNotFound
	}
	db, err := r.db.DB(ctx)
	if err != nil {
		return err
	}
	query := `
		UPDATE events SET title = $2, slug = $3, description = $4, overview = $5, image = $6,
			venue = $7, location = $8, date = $9, time = $10, mode = $11, audience = $12,
			agenda = $13, organizer = $14, tags = $15, updated_at = $16
		WHERE id = $1
	`
	result, err := db.ExecContext(ctx, query,
		e.ID, e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue, e.Location, e.Date, e.Time,
		string(e.Mode), e.Audience, pq.Array(e.Agenda), e.Organizer, pq.Array(e.Tags), e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: event with slug %q already exists", domain.ErrConflict, e.Slug)
		}
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
