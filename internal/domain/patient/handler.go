package patient

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/pkg/pagination"
)

// Handler provides HTTP handlers for patients.
type Handler struct {
	svc *Service
}

// NewHandler creates a patient handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the patient routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/:id", h.GetPatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.DELETE("/patients/:id", h.DeletePatient)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	p, err := h.svc.CreatePatient(c.Request().Context(), in)
	if err != nil {
		return err
	}
	c.Response().Header().Set("Location", "/api/patients/"+p.ID.String())
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)

	f := Filter{
		Name:    c.QueryParam("name"),
		Species: c.QueryParam("species"),
		Gender:  c.QueryParam("gender"),
	}
	if raw := c.QueryParam("breed_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return httperr.Validation("breed_id must be a valid id")
		}
		f.BreedID = &id
	}
	if raw := c.QueryParam("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return httperr.Validation("client_id must be a valid id")
		}
		f.ClientID = &id
	}

	items, total, err := h.svc.ListPatients(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	p, err := h.svc.GetPatient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	p, err := h.svc.UpdatePatient(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	if err := h.svc.DeletePatient(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
