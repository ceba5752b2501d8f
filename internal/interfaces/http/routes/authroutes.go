package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ezpsa-inc/ezpsa/internal/interfaces/http/handlers"
)

// AuthRouteConfig holds dependencies for sign-in routes.
type AuthRouteConfig struct {
	AuthHandler *handlers.AuthHandler
}

// SetupAuthRoutes configures the OAuth sign-in flow. These routes are public.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	engine.GET("/login", cfg.AuthHandler.Login)
	engine.GET("/auth", cfg.AuthHandler.Callback)
	engine.GET("/logout", cfg.AuthHandler.Logout)
}
