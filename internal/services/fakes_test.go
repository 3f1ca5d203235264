package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"devevents/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	nextID    int
	err       error // if set, Create and Update return this error
	getErr    error // if set, GetByID and GetBySlug return this error
	listErr   error
	lookups   int
	updated   *domain.Event
	createdCt int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Slug == e.Slug {
			return fmt.Errorf("%w: event with slug %q already exists", domain.ErrConflict, e.Slug)
		}
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	stored := *e
	f.byID[e.ID] = &stored
	f.createdCt++
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.lookups++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if e, ok := f.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, e := range f.byID {
		if e.Slug == slug {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Event
	for _, e := range f.byID {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range f.byID {
		if id != e.ID && existing.Slug == e.Slug {
			return fmt.Errorf("%w: event with slug %q already exists", domain.ErrConflict, e.Slug)
		}
	}
	stored := *e
	f.byID[e.ID] = &stored
	f.updated = &stored
	return nil
}

// fakeBookingRepo is an in-memory BookingRepository for tests.
type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	if f.err != nil {
		return f.err
	}
	b.ID = fmt.Sprintf("bk-%d", len(f.bookings)+1)
	f.bookings = append(f.bookings, b)
	return nil
}

type fakeAssetStore struct {
	url       string
	err       error
	calls     int
	lastAsset *domain.Asset
}

func (f *fakeAssetStore) Upload(ctx context.Context, asset *domain.Asset) (string, error) {
	f.calls++
	f.lastAsset = asset
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type publishedMessage struct {
	Type domain.MessageType
	Data any
}

type fakePublisher struct {
	published []publishedMessage
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, msgType domain.MessageType, data any) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedMessage{Type: msgType, Data: data})
	return nil
}

type fakeEmailService struct {
	sent []*domain.BookingConfirmationEmailData
	err  error
}

func (f *fakeEmailService) SendBookingConfirmation(ctx context.Context, data *domain.BookingConfirmationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

type fakeMailer struct {
	lastTo, lastSubject, lastHTML, lastText string
	err                                     error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, html, text string) error {
	if f.err != nil {
		return f.err
	}
	f.lastTo, f.lastSubject, f.lastHTML, f.lastText = to, subject, html, text
	return nil
}

type fakeRenderer struct {
	lastName string
	err      error
}

func (f *fakeRenderer) Render(name string, data any) (string, string, string, error) {
	f.lastName = name
	if f.err != nil {
		return "", "", "", f.err
	}
	return "subject", "<p>html</p>", "text", nil
}
