package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/smoradi/customer-api/internal/service/account"
)

// writeServiceError maps an account service failure onto the HTTP taxonomy.
// Internal detail never reaches the body; only fixed messages per kind.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, account.ErrValidation):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing required fields"})
	case errors.Is(err, account.ErrConflict):
		return c.JSON(http.StatusConflict, map[string]string{"error": "customer with this email or username already exists"})
	case errors.Is(err, account.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid email or password"})
	case errors.Is(err, account.ErrForbidden):
		return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
	case errors.Is(err, account.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "customer not found"})
	default:
		log.Errorf("account operation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
