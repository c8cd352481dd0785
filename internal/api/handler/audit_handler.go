package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/quizplatform/quiz-api/internal/core/ports"
)

const defaultAuditLimit = 50

// AuditHandler exposes the auth audit trail to administrators.
type AuditHandler struct {
	events ports.AuthEventRepository
}

func NewAuditHandler(events ports.AuthEventRepository) *AuditHandler {
	return &AuditHandler{events: events}
}

// List returns the most recent auth events, newest first.
//
// @Summary      List recent auth events
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of events (default 50, max 500)"
// @Success      200    {object}  apiResponse
// @Failure      403    {object}  apiResponse
// @Router       /auth/events [get]
func (h *AuditHandler) List(c echo.Context) error {
	limit := int64(defaultAuditLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > 500 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer between 1 and 500")
		}
		limit = n
	}

	events, err := h.events.FindRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, events, "")
}
