package http

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/smoradi/customer-api/internal/http/middleware"
	"github.com/smoradi/customer-api/internal/metrics"
	"github.com/smoradi/customer-api/internal/service/account"
)

func getProfileHandler(svc *account.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, ok := middleware.IdentityFromCtx(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		p, err := svc.GetProfile(c.Request().Context(), ident)
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(http.StatusOK, map[string]any{"customer": p})
	}
}

func updateProfileHandler(svc *account.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := middleware.IdentityFromCtx(c); !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		form, err := c.MultipartForm()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		// absent fields stay untouched
		var patch account.UpdateInput
		patch.Email = formField(form, "email")
		patch.Username = formField(form, "username")
		patch.Phone = formField(form, "phone")
		patch.Password = formField(form, "password")

		image, err := formImage(form)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		p, err := svc.UpdateProfile(c.Request().Context(), c.Param("id"), patch, image)
		if err != nil {
			metrics.AccountOpsTotal.WithLabelValues("update", "rejected").Inc()
			return writeServiceError(c, err)
		}

		metrics.AccountOpsTotal.WithLabelValues("update", "ok").Inc()

		return c.JSON(http.StatusOK, map[string]any{
			"message":  "profile updated",
			"customer": p,
		})
	}
}

func deleteProfileHandler(svc *account.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := middleware.IdentityFromCtx(c); !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		if err := svc.DeleteProfile(c.Request().Context(), c.Param("id")); err != nil {
			metrics.AccountOpsTotal.WithLabelValues("delete", "rejected").Inc()
			return writeServiceError(c, err)
		}

		metrics.AccountOpsTotal.WithLabelValues("delete", "ok").Inc()

		return c.JSON(http.StatusOK, map[string]string{"message": "profile deleted"})
	}
}

func formField(form *multipart.Form, name string) *string {
	vals, ok := form.Value[name]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

func formImage(form *multipart.Form) ([]byte, error) {
	files, ok := form.File["image"]
	if !ok || len(files) == 0 {
		return nil, nil
	}
	f, err := files[0].Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
