// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"usersvc/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler   *handler.UserHandler
	UserHandlerV2 *handler.UserHandlerV2
	HealthHandler *handler.HealthHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler   *handler.UserHandler
	userHandlerV2 *handler.UserHandlerV2
	healthHandler *handler.HealthHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:   params.UserHandler,
		userHandlerV2: params.UserHandlerV2,
		healthHandler: params.HealthHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.healthHandler.HealthCheck)

	registerUserRoutes(e.Group("/v1"), r.userHandler)
	registerUserRoutes(e.Group("/v2"), r.userHandlerV2)
}

// registerUserRoutes is the single route table shared by every API version.
func registerUserRoutes(g *echo.Group, h handler.UserRoutes) {
	g.POST("/users", h.CreateUser)
	g.GET("/users", h.ListUsers)
}
