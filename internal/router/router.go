package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/armandsalle/poll/internal/handler"    // import the handlers that implement business logic
	"github.com/armandsalle/poll/internal/middleware" // import middleware for session authentication
	"github.com/armandsalle/poll/internal/session"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// The /healthz endpoint can be used by load balancers or monitoring
	// systems to verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the identity endpoints.  Unauthenticated operations
// live under /v1/auth; endpoints that need a logged-in user live under
// /v1 behind the session middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, r *handler.ResetHandler, sessions *session.Manager) {
	g := e.Group("/v1/auth")
	// Registration state machine: claim an email, verify the mailed
	// code, then create the account.
	g.POST("/register", a.Register)
	g.POST("/verify", a.Verify)
	g.POST("/join", a.Join)
	// Credential check plus session cookie.
	g.POST("/login", a.Login)
	// Logout only clears the cookie, so it stays unauthenticated: a
	// client with a stale or invalid session must still be able to log out.
	g.POST("/logout", a.Logout)
	// Password reset: request a token by email, then redeem it.
	g.POST("/reset-password", r.Request)
	g.POST("/new-password", r.NewPassword)

	// Protected endpoints require a valid session cookie.
	auth := e.Group("/v1")
	auth.Use(middleware.Session(sessions))
	auth.GET("/me", a.Me)
}
