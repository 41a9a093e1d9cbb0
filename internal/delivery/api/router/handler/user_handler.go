// Package handler contains the HTTP handlers for the user resource.
package handler

import (
	"log/slog"
	"net/http"

	"usersvc/internal/delivery/api/response"
	"usersvc/internal/delivery/api/validator"
	deliverycontext "usersvc/internal/delivery/context"
	"usersvc/internal/domain/entity"
	"usersvc/internal/errors"
	"usersvc/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UserRoutes is the set of operations every API version exposes for users.
type UserRoutes interface {
	CreateUser(c echo.Context) error
	ListUsers(c echo.Context) error
}

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUC usecase.UserUsecase
	Logger *slog.Logger
}

// UserHandler serves the user resource. It backs /v1 directly.
type UserHandler struct {
	userUC usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		userUC: params.UserUC,
		logger: params.Logger,
	}
}

// CreateUserRequest is the body of a create call. Both fields must be present;
// empty strings are accepted.
type CreateUserRequest struct {
	Name  *string `json:"name" validate:"required"`
	Email *string `json:"email" validate:"required"`
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c echo.Context) error {
	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger)

	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Rejected create user request body", slog.Any("error", err))

		return response.BindingError(c, "Invalid user input")
	}

	if err := c.Validate(&req); err != nil {
		logger.Warn("Create user request failed validation", slog.Any("error", err))

		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			return response.ValidationError(c, vErr.Fields)
		}

		return response.ValidationError(c, nil)
	}

	user, err := h.userUC.CreateUser(c.Request().Context(), usecase.CreateUserInput{
		Name:  *req.Name,
		Email: *req.Email,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, user)
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userUC.ListUsers(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if users == nil {
		users = []*entity.User{}
	}

	return response.Success(c, http.StatusOK, users)
}
