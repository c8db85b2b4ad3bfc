package procedure

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/pkg/pagination"
)

// Handler provides HTTP handlers for the procedure catalog.
type Handler struct {
	svc *Service
}

// NewHandler creates a procedure handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the procedure routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/procedures", h.CreateProcedure)
	api.GET("/procedures", h.ListProcedures)
	api.GET("/procedures/:id", h.GetProcedure)
	api.PUT("/procedures/:id", h.UpdateProcedure)
	api.DELETE("/procedures/:id", h.DeleteProcedure)
}

func (h *Handler) CreateProcedure(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	p, err := h.svc.CreateProcedure(c.Request().Context(), in)
	if err != nil {
		return err
	}
	c.Response().Header().Set("Location", "/api/procedures/"+p.ID.String())
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListProcedures(c echo.Context) error {
	pg := pagination.FromContext(c)

	f := Filter{
		NameContains:  c.QueryParam("name_contains"),
		ProcedureType: c.QueryParam("procedure_type"),
	}
	if raw := c.QueryParam("min_duration"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return httperr.Validation("min_duration must be a number")
		}
		f.MinDuration = &n
	}
	if raw := c.QueryParam("max_duration"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return httperr.Validation("max_duration must be a number")
		}
		f.MaxDuration = &n
	}

	items, total, err := h.svc.ListProcedures(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetProcedure(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	p, err := h.svc.GetProcedure(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateProcedure(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	p, err := h.svc.UpdateProcedure(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProcedure(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	if err := h.svc.DeleteProcedure(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
