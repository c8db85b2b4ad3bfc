package stats

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/internal/platform/validate"
)

// Handler provides the HTTP handler for statistics.
type Handler struct {
	svc *Service
}

// NewHandler creates a statistics handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the statistics route.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/stats", h.GetOverview)
}

func (h *Handler) GetOverview(c echo.Context) error {
	q := Query{
		Role:    c.QueryParam("role"),
		Section: c.QueryParam("type"),
	}
	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return httperr.Validation("user_id must be a valid id")
		}
		q.UserID = &id
	}
	if raw := c.QueryParam("start_date"); raw != "" {
		t, err := time.Parse(validate.DateLayout, raw)
		if err != nil {
			return httperr.Validation("start_date must be a date in YYYY-MM-DD format")
		}
		q.StartDate = &t
	}
	if raw := c.QueryParam("end_date"); raw != "" {
		t, err := time.Parse(validate.DateLayout, raw)
		if err != nil {
			return httperr.Validation("end_date must be a date in YYYY-MM-DD format")
		}
		q.EndDate = &t
	}

	overview, err := h.svc.Overview(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, overview)
}
