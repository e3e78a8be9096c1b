package middleware

import (
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v4"
	"github.com/smoradi/customer-api/internal/auth"
)

// identityKey is the echo context key the rest of the pipeline reads.
const identityKey = "customer_id"

// IdentityFromCtx extracts the authenticated identity set by BearerAuthMiddleware.
func IdentityFromCtx(c echo.Context) (auth.Identity, bool) {
	v := c.Get(identityKey)
	ident, ok := v.(auth.Identity)
	return ident, ok
}

// BearerAuthMiddleware authenticates requests using the Authorization header.
// On success it stores the verified identity in context under "customer_id".
// Every verification failure collapses to a single 401.
func BearerAuthMiddleware(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if header == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header"})
			}

			claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
			if err != nil || claims.SubjectID() == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}

			c.Set(identityKey, claims.Identity())
			return next(c)
		}
	}
}

// AdminOnlyMiddleware requires the authenticated identity to carry the admin
// flag. Runs after BearerAuthMiddleware; the list handler re-checks the flag
// on its own as well.
func AdminOnlyMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := IdentityFromCtx(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			if !ident.IsAdmin {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
			}
			return next(c)
		}
	}
}
