package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/smoradi/customer-api/internal/metrics"
	"github.com/smoradi/customer-api/internal/service/account"
)

func loginHandler(svc *account.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req account.LoginInput
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		res, err := svc.Login(c.Request().Context(), req)
		if err != nil {
			metrics.AccountOpsTotal.WithLabelValues("login", "rejected").Inc()
			return writeServiceError(c, err)
		}

		metrics.AccountOpsTotal.WithLabelValues("login", "ok").Inc()

		return c.JSON(http.StatusOK, map[string]any{
			"message":  "login successful",
			"customer": res.Customer,
			"token":    res.Token,
		})
	}
}
