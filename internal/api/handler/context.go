package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quizplatform/quiz-api/internal/api/middleware"
	"github.com/quizplatform/quiz-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware and
// fast-fails with 401 when it is absent, which means the middleware was not
// run (or failed) upstream of this handler.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return principal, nil
}
