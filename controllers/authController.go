package controllers

import (
	"OdontoSystem/handlers"
	"OdontoSystem/middlewares"
	"OdontoSystem/models"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler       *handlers.AuthHandler
	Authenticator middlewares.Authenticator
	// ResetEnabled mounts the password reset routes; it requires SMTP.
	ResetEnabled bool
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler, auth middlewares.Authenticator, resetEnabled bool) *AuthController {
	return &AuthController{
		Handler:       authHandler,
		Authenticator: auth,
		ResetEnabled:  resetEnabled,
	}
}

// RegisterRoutes initializes all authentication routes directly on the router
func (ac *AuthController) RegisterRoutes(router gin.IRouter) {
	// Public routes: No authentication required
	router.POST("/auth/login", ac.Handler.Login)
	if ac.ResetEnabled {
		router.POST("/auth/send-reset-code", ac.Handler.SendResetCode)
		router.POST("/auth/reset-password", ac.Handler.ResetPassword)
	}

	// Protected routes: Requires a valid token
	authGroup := router.Group("/auth", middlewares.TokenAuthMiddleware(ac.Authenticator))
	{
		authGroup.GET("/me", ac.Handler.GetUserProfile)
		authGroup.POST("/logout", ac.Handler.Logout)
		authGroup.POST("/change-password", ac.Handler.ChangePassword)
	}

	// Admin routes: Requires a valid token and the admin role
	adminGroup := router.Group("/auth/users",
		middlewares.TokenAuthMiddleware(ac.Authenticator),
		middlewares.RoleAuthMiddleware(models.RoleAdmin),
	)
	{
		adminGroup.GET("", ac.Handler.ListUsers)
		adminGroup.POST("", ac.Handler.CreateUser)
		adminGroup.PUT("/:id", ac.Handler.UpdateUser)
		adminGroup.DELETE("/:id", ac.Handler.DeactivateUser)
	}
}
