package controllers

import (
	"net/http"

	"devevents/internal/delivery/http/helpers"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} controllers.HealthResponse
// @Router /health [get]
func Health(w http.ResponseWriter, _ *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
