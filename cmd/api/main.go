package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devevents/config"
	_ "devevents/docs"
	"devevents/internal/adapters/assets"
	"devevents/internal/adapters/broker"
	"devevents/internal/adapters/email"
	deliveryhttp "devevents/internal/delivery/http"
	"devevents/internal/delivery/http/controllers"
	"devevents/internal/delivery/http/middleware"
	"devevents/internal/domain"
	"devevents/internal/repository/mongodb"
	"devevents/internal/repository/postgres"
	"devevents/internal/services"
)

const (
	brokerDialAttempts = 5
	brokerDialBackoff  = 2 * time.Second
	shutdownTimeout    = 10 * time.Second
)

// store is the part of a repository backend main needs: repositories, a warm-up and Close.
type store struct {
	events   domain.EventRepository
	bookings domain.BookingRepository
	warm     func(ctx context.Context) error
	close    func(ctx context.Context) error
}

// publisher is a domain.Publisher that must be closed on shutdown.
type publisher interface {
	domain.Publisher
	Close() error
}

// @title           DevEvents API
// @version         1.0
// @description     Developer event listings and bookings.
// @BasePath        /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
	logger.Info("server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	st := openStore(cfg, logger)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			logger.Warn("close store", "err", err)
		}
	}()

	// The connection cache dials lazily; a failed warm-up is retried by the first request.
	warmCtx, cancel := context.WithTimeout(ctx, cfg.Pool.ServerSelectionTimeout)
	if err := st.warm(warmCtx); err != nil {
		logger.Warn("store not reachable at startup", "driver", cfg.StoreDriver, "err", err)
	}
	cancel()

	assetStore, err := assets.NewAssetStore(cfg.Assets, logger)
	if err != nil {
		return err
	}
	mailer, err := email.NewMailer(cfg.Mailer, logger)
	if err != nil {
		return err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	pub := openPublisher(ctx, cfg, logger)
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Warn("close publisher", "err", err)
		}
	}()

	emailService := services.NewEmailService(mailer, renderer, logger)
	eventService := services.NewEventService(st.events, assetStore, pub, logger, cfg.RequestTimeout)
	bookingService := services.NewBookingService(st.bookings, st.events, emailService, pub, logger, cfg.RequestTimeout)

	router := deliveryhttp.NewRouter(
		controllers.NewEventController(logger, eventService),
		controllers.NewBookingController(logger, bookingService),
	)
	handler := middleware.RequestID(middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, router)))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "port", cfg.Port, "store", cfg.StoreDriver, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(cfg *config.Config, logger *slog.Logger) store {
	if cfg.StoreDriver == config.StorePostgres {
		s := postgres.NewStore(cfg.DBUrl, cfg.Pool, logger)
		return store{
			events:   postgres.NewEventRepository(s),
			bookings: postgres.NewBookingRepository(s),
			warm: func(ctx context.Context) error {
				_, err := s.DB(ctx)
				return err
			},
			close: s.Close,
		}
	}
	s := mongodb.NewStore(cfg.MongoURI, cfg.MongoDatabase, cfg.Pool, logger)
	return store{
		events:   mongodb.NewEventRepository(s),
		bookings: mongodb.NewBookingRepository(s),
		warm: func(ctx context.Context) error {
			_, err := s.Database(ctx)
			return err
		},
		close: s.Close,
	}
}

// openPublisher connects to RabbitMQ when RABBITMQ_URL is set. Notifications are best-effort, so
// an unreachable broker falls back to the no-op publisher.
func openPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) publisher {
	if cfg.RabbitMQURL == "" {
		return broker.NoopPublisher{}
	}
	p, err := broker.Dial(ctx, cfg.RabbitMQURL, brokerDialAttempts, brokerDialBackoff, logger)
	if err != nil {
		logger.Warn("rabbitmq unavailable, notifications disabled", "err", err)
		return broker.NoopPublisher{}
	}
	return p
}
