package medicalrecord

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/pkg/pagination"
)

// Handler provides HTTP handlers for medical records.
type Handler struct {
	svc *Service
}

// NewHandler creates a medical record handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the medical record routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/medical_records", h.CreateRecord)
	api.GET("/medical_records", h.ListRecords)
	api.GET("/medical_records/:id", h.GetRecord)
	api.PUT("/medical_records/:id", h.UpdateRecord)
	api.DELETE("/medical_records/:id", h.DeleteRecord)
}

func (h *Handler) CreateRecord(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	rec, err := h.svc.CreateRecord(c.Request().Context(), in)
	if err != nil {
		return err
	}
	c.Response().Header().Set("Location", "/api/medical_records/"+rec.ID.String())
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListRecords(c echo.Context) error {
	pg := pagination.FromContext(c)

	f := Filter{DiagnosisContains: c.QueryParam("diagnosis_contains")}
	if raw := c.QueryParam("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return httperr.Validation("patient_id must be a valid id")
		}
		f.PatientID = &id
	}
	if raw := c.QueryParam("veterinarian_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return httperr.Validation("veterinarian_id must be a valid id")
		}
		f.VeterinarianID = &id
	}
	if raw := c.QueryParam("start_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return httperr.Validation("start_date must be an RFC 3339 timestamp")
		}
		f.StartDate = &t
	}
	if raw := c.QueryParam("end_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return httperr.Validation("end_date must be an RFC 3339 timestamp")
		}
		f.EndDate = &t
	}

	items, total, err := h.svc.ListRecords(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	rec, err := h.svc.GetRecord(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) UpdateRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	rec, err := h.svc.UpdateRecord(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) DeleteRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	if err := h.svc.DeleteRecord(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
