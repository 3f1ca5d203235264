package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"devevents/internal/delivery/http/helpers"
	"devevents/internal/domain"
)

// CreateBookingRequest is the request body for POST /bookings.
type CreateBookingRequest struct {
	EventID string `json:"eventId"`
	Email   string `json:"email"`
}

// Validate implements Validator. Email shape is checked by the booking itself.
func (c CreateBookingRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.EventID) == "" {
		errs = append(errs, "eventId is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// BookingResponse is the success response body for POST /bookings (201).
type BookingResponse struct {
	Message string          `json:"message"`
	Booking *domain.Booking `json:"booking"`
}

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateBooking godoc
// @Summary Book an event
// @Description Reserves an email address against an existing event. The email is trimmed and lower-cased.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body CreateBookingRequest true "Event id and email"
// @Success 201 {object} controllers.BookingResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse "referenced event does not exist"
// @Failure 500 {object} helpers.ErrorResponse
// @Router /bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	booking, err := c.Service.CreateBooking(r.Context(), req.EventID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteValidationError(w, "Booking validation failed", err)
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, "Event not found", err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, "Failed to create booking", err.Error())
		}
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, BookingResponse{Message: "Booking created successfully", Booking: booking})
}
