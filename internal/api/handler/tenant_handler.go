package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/restauranthub/timetracker/internal/core/ports"
)

// TenantHandler serves super-admin tenant management plus the public tenant
// options list the login form needs.
type TenantHandler struct {
	tenantService ports.TenantService
}

func NewTenantHandler(tenantService ports.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

type tenantRequest struct {
	Name string `json:"name" form:"name" validate:"required"`
}

type tenantSummaryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UserCount int64  `json:"user_count"`
}

// Options handles GET /tenants/options — unauthenticated, feeds the login
// form dropdown.
func (h *TenantHandler) Options(c echo.Context) error {
	options, err := h.tenantService.Options(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, options)
}

// List handles GET /tenants.
func (h *TenantHandler) List(c echo.Context) error {
	summaries, err := h.tenantService.List(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]tenantSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, tenantSummaryResponse{
			ID:        s.Tenant.ID,
			Name:      s.Tenant.Name,
			UserCount: s.UserCount,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /tenants.
func (h *TenantHandler) Create(c echo.Context) error {
	var req tenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenant, err := h.tenantService.Create(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tenant)
}

// Rename handles PUT /tenants/:id.
func (h *TenantHandler) Rename(c echo.Context) error {
	var req tenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tenant, err := h.tenantService.Rename(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenant)
}

// Delete handles DELETE /tenants/:id. Refused with 409 while the tenant still
// owns non-superadmin users.
func (h *TenantHandler) Delete(c echo.Context) error {
	if err := h.tenantService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateAdmin handles POST /tenants/:id/admin.
func (h *TenantHandler) CreateAdmin(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	created, err := h.tenantService.CreateAdmin(c.Request().Context(), c.Param("id"), claims.UserID, c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createUserResponse{
		User:         created.User,
		TempPassword: created.TempPassword,
	})
}
