package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swasthya/child-health-system/internal/api/middleware"
	"github.com/swasthya/child-health-system/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: a nil or incomplete
// identity means the middleware did not run on this route.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, _ := c.Get(middleware.IdentityKey).(*domain.Identity)
	if identity == nil || identity.ID == "" || identity.Role == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return *identity, nil
}
