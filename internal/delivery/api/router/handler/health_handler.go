package handler

import (
	"net/http"

	"usersvc/internal/delivery/api/response"
	"usersvc/internal/domain/repository"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports process and store health.
type HealthHandler struct {
	store repository.HealthReporter
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(store repository.HealthReporter) *HealthHandler {
	return &HealthHandler{store: store}
}

// storeStatus is the public part of repository.StoreHealth. Location and load
// errors stay in the logs.
type storeStatus struct {
	State   repository.StoreState `json:"state"`
	Records int                   `json:"records"`
}

type healthResponse struct {
	Status string      `json:"status"`
	Store  storeStatus `json:"store"`
}

// HealthCheck answers 200 while the store is usable and 503 once it has fallen back to empty.
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	health := h.store.Status()
	body := healthResponse{
		Status: "ok",
		Store:  storeStatus{State: health.State, Records: health.Records},
	}

	if !health.Healthy() {
		body.Status = "degraded"

		return response.Success(c, http.StatusServiceUnavailable, body)
	}

	return response.Success(c, http.StatusOK, body)
}
