package user

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/pkg/pagination"
)

// Handler provides HTTP handlers for staff accounts.
type Handler struct {
	svc *Service
}

// NewHandler creates a user handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the user routes, including login.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/users", h.CreateUser)
	api.GET("/users", h.ListUsers)
	api.GET("/users/:id", h.GetUser)
	api.PUT("/users/:id", h.UpdateUser)
	api.DELETE("/users/:id", h.DeleteUser)
	api.POST("/users/login", h.Login)
}

func (h *Handler) CreateUser(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	u, err := h.svc.CreateUser(c.Request().Context(), in)
	if err != nil {
		return err
	}
	c.Response().Header().Set("Location", "/api/users/"+u.ID.String())
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) ListUsers(c echo.Context) error {
	pg := pagination.FromContext(c)

	f := Filter{
		Email:         c.QueryParam("email"),
		Role:          c.QueryParam("role"),
		LicenseNumber: c.QueryParam("license_number"),
	}
	if raw := c.QueryParam("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return httperr.Validation("is_active must be true or false")
		}
		f.IsActive = &active
	}
	if raw := c.QueryParam("created_after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return httperr.Validation("created_after must be an RFC 3339 timestamp")
		}
		f.CreatedAfter = &t
	}
	if raw := c.QueryParam("created_before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return httperr.Validation("created_before must be an RFC 3339 timestamp")
		}
		f.CreatedBefore = &t
	}

	items, total, err := h.svc.ListUsers(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	u, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	u, err := h.svc.UpdateUser(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return httperr.Validation("invalid id")
	}
	if err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Login(c echo.Context) error {
	var in LoginInput
	if err := c.Bind(&in); err != nil {
		return httperr.Validation("invalid request body")
	}
	result, err := h.svc.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
