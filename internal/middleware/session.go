package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/armandsalle/poll/internal/session"
)

// Session returns an Echo middleware that reads the session cookie,
// verifies the artifact through the session manager and injects the
// user id into the request context.  Handlers behind it read the
// identity via `c.Get("user_id")`.  A missing, tampered or expired
// session is one and the same failure: 401 with a generic body, so API
// callers redirect to login instead of rendering an error page.
func Session(mgr *session.Manager) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            var artifact string
            if cookie, err := c.Cookie(session.CookieName); err == nil {
                artifact = cookie.Value
            }
            userID, err := mgr.Require(artifact)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
            }
            c.Set("user_id", userID)
            return next(c)
        }
    }
}
