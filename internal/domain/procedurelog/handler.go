package procedurelog

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/internal/platform/validate"
	"github.com/vetclinic/vetclinic/pkg/pagination"
)

// Handler provides HTTP handlers for the procedure history.
type Handler struct {
	svc *Service
}

// NewHandler creates a procedure history handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the procedure history routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patient_procedures", h.CreateEntry)
	api.GET("/patient_procedures", h.ListEntries)
	api.GET("/patient_procedures/:id", h.GetEntry)
	api.PUT("/patient_procedures/:id", h.UpdateEntry)
	api.DELETE("/patient_procedures/:id", h.DeleteEntry)
}

func (h *Handler) CreateEntry(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	e, err := h.svc.CreateEntry(c.Request().Context(), in)
	if err != nil {
		return err
	}
	c.Response().Header().Set("Location", "/api/patient_procedures/"+e.ID.String())
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) ListEntries(c echo.Context) error {
	pg := pagination.FromContext(c)

	var f Filter
	if raw := c.QueryParam("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return httperr.Validation("patient_id must be a valid id")
		}
		f.PatientID = &id
	}
	if raw := c.QueryParam("procedure_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return httperr.Validation("procedure_id must be a valid id")
		}
		f.ProcedureID = &id
	}
	if raw := c.QueryParam("veterinarian_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return httperr.Validation("veterinarian_id must be a valid id")
		}
		f.VeterinarianID = &id
	}
	if raw := c.QueryParam("start_date"); raw != "" {
		t, err := time.Parse(validate.DateLayout, raw)
		if err != nil {
			return httperr.Validation("start_date must be a date in YYYY-MM-DD format")
		}
		f.StartDate = &t
	}
	if raw := c.QueryParam("end_date"); raw != "" {
		t, err := time.Parse(validate.DateLayout, raw)
		if err != nil {
			return httperr.Validation("end_date must be a date in YYYY-MM-DD format")
		}
		f.EndDate = &t
	}

	items, total, err := h.svc.ListEntries(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetEntry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	e, err := h.svc.GetEntry(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) UpdateEntry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	e, err := h.svc.UpdateEntry(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteEntry(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	if err := h.svc.DeleteEntry(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
