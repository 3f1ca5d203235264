package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"devevents/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(eventController *controllers.EventController, bookingController *controllers.BookingController) *http.ServeMux {
	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/{slug}", eventController.GetEventBySlug)
	mux.HandleFunc("PATCH /events/{slug}", eventController.UpdateEvent)

	// Bookings
	mux.HandleFunc("POST /bookings", bookingController.CreateBooking)

	mux.HandleFunc("GET /health", controllers.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
