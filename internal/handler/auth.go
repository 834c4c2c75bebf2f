package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/armandsalle/poll/internal/service"
	"github.com/armandsalle/poll/internal/session"
)

// AuthHandler bundles dependencies for the registration and login endpoints.
type AuthHandler struct {
	Registration *service.Registration
	Auth         *service.Auth
	Sessions     *session.Manager
}

func NewAuthHandler(reg *service.Registration, auth *service.Auth, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{Registration: reg, Auth: auth, Sessions: sessions}
}

// ----- DTOs -----

type registerReq struct {
	Email string `json:"email"`
}
type verifyReq struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}
type joinReq struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type userPart struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Register: claim an email and have a verification code mailed to it.
// The code never appears in the response; it only travels by email.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.TrimSpace(req.Email)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Registration.Begin(ctx, email); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email is required"})
		case errors.Is(err, service.ErrEmailTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong, try again"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "code_sent", "email": email})
}

// Verify: match the mailed code against the pending registration.  A
// missing registration and a wrong code produce the identical response
// so the endpoint cannot be used to tell the two apart.
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.TrimSpace(req.Email)
	code := strings.TrimSpace(req.Code)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Registration.VerifyCode(ctx, email, code); err != nil {
		switch {
		case errors.Is(err, service.ErrNoSuchRegistration), errors.Is(err, service.ErrCodeMismatch):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email or code"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong, try again"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "verified", "email": email})
}

// Join: create the account for a verified registration and log the new
// user straight in with a session-scoped cookie.
func (h *AuthHandler) Join(c echo.Context) error {
	var req joinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	user, err := h.Registration.CompleteJoin(ctx, email, name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email is required"})
		case errors.Is(err, service.ErrInvalidName):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
		case errors.Is(err, service.ErrWeakPassword):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password is too short"})
		case errors.Is(err, service.ErrNoSuchRegistration),
			errors.Is(err, service.ErrNotVerified):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email or code"})
		case errors.Is(err, service.ErrEmailTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong, try again"})
	}

	artifact, exp, err := h.Sessions.Create(user.ID, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	c.SetCookie(h.Sessions.Cookie(artifact, exp, false))

	return c.JSON(http.StatusCreated, echo.Map{
		"user": userPart{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}

// Login: verify credentials and set the session cookie.  remember=true
// extends the cookie and artifact to the long-lived window.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.TrimSpace(req.Email)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Auth.Login(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong, try again"})
	}

	artifact, exp, err := h.Sessions.Create(user.ID, req.Remember)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	c.SetCookie(h.Sessions.Cookie(artifact, exp, req.Remember))

	return c.JSON(http.StatusOK, echo.Map{
		"user": userPart{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}

// Logout clears the session cookie.  Artifacts are not tracked server
// side, so destroying the session means removing it from the client.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.Sessions.ClearCookie())
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Auth.GetUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user": userPart{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}
