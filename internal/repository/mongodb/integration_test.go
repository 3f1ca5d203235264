//go:build integration

package mongodb

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"devevents/internal/domain"
	"devevents/internal/storage"
)

var testStore *Store

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not connect to docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7",
	}, func(conf *docker.HostConfig) {
		conf.AutoRemove = true
	})
	if err != nil {
		log.Fatalf("could not start mongo: %s", err)
	}

	uri := fmt.Sprintf("mongodb://localhost:%s", resource.GetPort("27017/tcp"))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	testStore = NewStore(uri, "devevents_test", storage.DefaultPoolConfig(), logger)

	if err := pool.Retry(func() error {
		_, err := testStore.Database(context.Background())
		return err
	}); err != nil {
		_ = pool.Purge(resource)
		log.Fatalf("could not connect to mongo: %s", err)
	}

	code := m.Run()

	_ = testStore.Close(context.Background())
	if err := pool.Purge(resource); err != nil {
		log.Printf("could not purge mongo: %s", err)
	}
	os.Exit(code)
}

func TestIntegration_EventLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(testStore)
	now := time.Now().UTC().Truncate(time.Millisecond)

	e := &domain.Event{
		Title: "Go Conf", Description: "d", Overview: "o", Image: "https://img.example/go.png",
		Venue: "Hall", Location: "Berlin", Date: "2025-09-01", Time: "10:00 AM",
		Mode: domain.EventModeOffline, Audience: "gophers", Agenda: []string{"Talks"},
		Organizer: "Gophers", Tags: []string{"go"}, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, e.Prepare(nil))
	require.NoError(t, repo.Create(ctx, e))

	got, err := repo.GetBySlug(ctx, "go-conf")
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "2025-09-01", got.Date)

	dup := *e
	dup.ID = ""
	err = repo.Create(ctx, &dup)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got.Description = "updated"
	require.NoError(t, repo.Update(ctx, got))
	reloaded, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", reloaded.Description)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, list)
}

func TestIntegration_BookingCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(testStore)
	now := time.Now().UTC()

	b := domain.NewBooking(primitive.NewObjectID().Hex(), "someone@example.com", now, now)
	require.NoError(t, repo.Create(ctx, b))
	assert.NotEmpty(t, b.ID)

	bad := domain.NewBooking("not-hex", "someone@example.com", now, now)
	assert.ErrorIs(t, repo.Create(ctx, bad), domain.ErrEventNotFound)
}
