package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/swasthya/child-health-system/internal/api/metrics"
	"github.com/swasthya/child-health-system/internal/core/domain"
	"github.com/swasthya/child-health-system/internal/core/ports"
)

// IdentityKey is the echo context key under which the verified identity is
// stored by the Auth middleware.
const IdentityKey = "identity"

// Auth extracts the bearer token, verifies it through the auth service and
// injects the resolved identity into the request context. Expired tokens get
// a distinct message so clients know to log in again rather than treat the
// token as tampered.
func Auth(verifier ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			identity, err := verifier.Verify(c.Request().Context(), parts[1])
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenExpired):
					metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				case errors.Is(err, domain.ErrInvalidToken):
					metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return err
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			c.Set(IdentityKey, identity)
			c.Set("role", identity.Role)

			return next(c)
		}
	}
}
