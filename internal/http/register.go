package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/smoradi/customer-api/internal/metrics"
	"github.com/smoradi/customer-api/internal/service/account"
)

func registerHandler(svc *account.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req account.RegisterInput
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		res, err := svc.Register(c.Request().Context(), req)
		if err != nil {
			metrics.AccountOpsTotal.WithLabelValues("register", "rejected").Inc()
			return writeServiceError(c, err)
		}

		metrics.AccountOpsTotal.WithLabelValues("register", "ok").Inc()

		return c.JSON(http.StatusCreated, map[string]any{
			"message":  "customer registered",
			"token":    res.Token,
			"customer": res.Customer,
		})
	}
}
