package scheduling

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/pkg/pagination"
)

// Handler provides HTTP handlers for appointments.
type Handler struct {
	svc *Service
}

// NewHandler creates an appointment handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the appointment routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/appointments", h.CreateAppointment)
	api.GET("/appointments", h.ListAppointments)
	api.GET("/appointments/:id", h.GetAppointment)
	api.PUT("/appointments/:id", h.UpdateAppointment)
	api.DELETE("/appointments/:id", h.DeleteAppointment)
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	appt, err := h.svc.CreateAppointment(c.Request().Context(), in)
	if err != nil {
		return err
	}
	c.Response().Header().Set("Location", "/api/appointments/"+appt.ID.String())
	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	pg := pagination.FromContext(c)

	f := Filter{
		Status:         c.QueryParam("status"),
		ReasonContains: c.QueryParam("reason_contains"),
	}
	if raw := c.QueryParam("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return httperr.Validation("patient_id must be a valid id")
		}
		f.PatientID = &id
	}
	if raw := c.QueryParam("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return httperr.Validation("client_id must be a valid id")
		}
		f.ClientID = &id
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

	items, total, err := h.svc.ListAppointments(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	appt, err := h.svc.GetAppointment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	appt, err := h.svc.UpdateAppointment(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	if err := h.svc.DeleteAppointment(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
