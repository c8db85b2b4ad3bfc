package breed

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/pkg/pagination"
)

// Handler provides HTTP handlers for the breed catalog.
type Handler struct {
	svc *Service
}

// NewHandler creates a breed handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the breed routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/breeds", h.CreateBreed)
	api.GET("/breeds", h.ListBreeds)
	api.GET("/breeds/:id", h.GetBreed)
	api.PUT("/breeds/:id", h.UpdateBreed)
	api.DELETE("/breeds/:id", h.DeleteBreed)
}

func (h *Handler) CreateBreed(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	b, err := h.svc.CreateBreed(c.Request().Context(), in)
	if err != nil {
		return err
	}
	c.Response().Header().Set("Location", "/api/breeds/"+b.ID.String())
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) ListBreeds(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		Species: c.QueryParam("species"),
		Name:    c.QueryParam("name"),
	}
	items, total, err := h.svc.ListBreeds(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetBreed(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	b, err := h.svc.GetBreed(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) UpdateBreed(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	b, err := h.svc.UpdateBreed(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBreed(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	if err := h.svc.DeleteBreed(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
