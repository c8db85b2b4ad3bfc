package client

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/pkg/pagination"
)

// Handler provides HTTP handlers for clients.
type Handler struct {
	svc *Service
}

// NewHandler creates a client handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the client routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/clients", h.CreateClient)
	api.GET("/clients", h.ListClients)
	api.GET("/clients/:id", h.GetClient)
	api.PUT("/clients/:id", h.UpdateClient)
	api.DELETE("/clients/:id", h.DeleteClient)
}

func (h *Handler) CreateClient(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	cl, err := h.svc.CreateClient(c.Request().Context(), in)
	if err != nil {
		return err
	}
	c.Response().Header().Set("Location", "/api/clients/"+cl.ID.String())
	return c.JSON(http.StatusCreated, cl)
}

func (h *Handler) ListClients(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		Name:  c.QueryParam("name"),
		Phone: c.QueryParam("phone"),
	}
	if raw := c.QueryParam("assigned_to"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return httperr.Validation("assigned_to must be a valid id")
		}
		f.AssignedTo = &id
	}
	items, total, err := h.svc.ListClients(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetClient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	cl, err := h.svc.GetClient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) UpdateClient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	cl, err := h.svc.UpdateClient(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) DeleteClient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	if err := h.svc.DeleteClient(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
