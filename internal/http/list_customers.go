package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/smoradi/customer-api/internal/http/middleware"
	"github.com/smoradi/customer-api/internal/service/account"
)

func listCustomersHandler(svc *account.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, ok := middleware.IdentityFromCtx(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		// ListAll re-checks the admin flag even though the admin gate
		// already ran.
		customers, err := svc.ListAll(c.Request().Context(), ident)
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"success":   true,
			"customers": customers,
		})
	}
}
