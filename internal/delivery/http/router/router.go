// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"robofleet/internal/delivery/http/middleware"
	"robofleet/internal/delivery/http/router/handler"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	GroupHandler   *handler.GroupHandler
	RobotHandler   *handler.RobotHandler
	SettingHandler *handler.SettingHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	groupHandler   *handler.GroupHandler
	robotHandler   *handler.RobotHandler
	settingHandler *handler.SettingHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		groupHandler:   params.GroupHandler,
		robotHandler:   params.RobotHandler,
		settingHandler: params.SettingHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")

	// Liveness endpoint, no authentication.
	api.GET("/health", handler.HealthCheck)

	// Auth routes; register and login are the only unauthenticated ones.
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.GET("/me", r.authHandler.GetMe, r.authMiddleware.Authenticate)
	}

	// Group membership routes.
	groupGroup := api.Group("/groups")
	groupGroup.Use(r.authMiddleware.Authenticate)
	{
		groupGroup.POST("", r.groupHandler.Create)
		groupGroup.GET("", r.groupHandler.List)
		groupGroup.GET("/:id", r.groupHandler.Get)
		groupGroup.DELETE("/:id", r.groupHandler.Delete)
		groupGroup.POST("/:id/members", r.groupHandler.AddMember)
		groupGroup.DELETE("/:id/members/:userId", r.groupHandler.RemoveMember)
		groupGroup.PATCH("/:id/members/:userId/role", r.groupHandler.UpdateMemberRole)
	}

	// Robot registry and permission routes.
	robotGroup := api.Group("/robots")
	robotGroup.Use(r.authMiddleware.Authenticate)
	{
		robotGroup.POST("", r.robotHandler.Create)
		robotGroup.GET("", r.robotHandler.List)
		robotGroup.GET("/:serialNumber", r.robotHandler.Get)
		robotGroup.DELETE("/:serialNumber", r.robotHandler.Delete)
		robotGroup.POST("/:serialNumber/permissions", r.robotHandler.Grant)
		robotGroup.DELETE("/:serialNumber/permissions/:userId", r.robotHandler.Revoke)
	}

	// Per-user robot settings routes.
	settingGroup := api.Group("/settings")
	settingGroup.Use(r.authMiddleware.Authenticate)
	{
		settingGroup.GET("", r.settingHandler.List)
		settingGroup.GET("/:serialNumber", r.settingHandler.Get)
		settingGroup.POST("/:serialNumber", r.settingHandler.Save)
	}
}
