package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/armandsalle/poll/internal/service"
)

// ResetHandler exposes the password reset flow.
type ResetHandler struct {
	Reset *service.PasswordReset
}

func NewResetHandler(reset *service.PasswordReset) *ResetHandler {
	return &ResetHandler{Reset: reset}
}

type resetReq struct {
	Email string `json:"email"`
}
type newPasswordReq struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Request accepts a reset request.  The response is 202 whether or not
// an account exists behind the address; only a malformed email is
// rejected.  Anything else would hand out a membership oracle.
func (h *ResetHandler) Request(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.TrimSpace(req.Email)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reset.Request(ctx, email); err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email is required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong, try again"})
	}
	return c.JSON(http.StatusAccepted, echo.Map{"status": "accepted"})
}

// NewPassword redeems a reset token and stores the replacement
// password.  Unknown email, superseded token, consumed token and plain
// mismatch all share one response body.
func (h *ResetHandler) NewPassword(c echo.Context) error {
	var req newPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.TrimSpace(req.Email)
	token := strings.TrimSpace(req.Token)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Reset.SetNewPassword(ctx, email, token, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password is too short"})
		case errors.Is(err, service.ErrTokenInvalid):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email or token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong, try again"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "password_updated"})
}
