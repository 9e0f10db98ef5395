package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/restauranthub/timetracker/internal/core/domain"
	"github.com/restauranthub/timetracker/internal/core/ports"
)

// AdminHandler serves tenant-admin operations. Routes carry the RequireAdmin
// guard; the tenant id comes from claims, never from the request.
type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type createUserRequest struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	IsAdmin bool   `json:"is_admin" form:"is_admin"`
}

type createUserResponse struct {
	User *domain.User `json:"user"`
	// TempPassword is shown exactly once; no endpoint returns it again.
	TempPassword string `json:"temp_password"`
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	users, err := h.adminService.ListUsers(c.Request().Context(), claims.TenantID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /admin/users.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.adminService.CreateUser(c.Request().Context(), ports.CreateUserInput{
		TenantID:        claims.TenantID,
		Name:            req.Name,
		Email:           req.Email,
		IsAdmin:         req.IsAdmin,
		CreatedByUserID: claims.UserID,
		RemoteIP:        c.RealIP(),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createUserResponse{
		User:         created.User,
		TempPassword: created.TempPassword,
	})
}

// DeleteUser handles DELETE /admin/users/:id. An id belonging to another
// tenant does not resolve and surfaces as 404.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.adminService.DeleteUser(c.Request().Context(), claims.TenantID, c.Param("id"), claims.UserID, c.RealIP()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UserAudit handles GET /admin/users/:id/audit. Works for deleted users too:
// the trail outlives the account.
func (h *AdminHandler) UserAudit(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	entries, err := h.adminService.UserAudit(c.Request().Context(), claims.TenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// ExportHours handles GET /admin/export?year=2026&month=8 and streams the
// tenant's monthly hours as semicolon-separated CSV.
func (h *AdminHandler) ExportHours(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "year is required")
	}
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || month < 1 || month > 12 {
		return echo.NewHTTPError(http.StatusBadRequest, "month must be 1-12")
	}

	rows, err := h.adminService.ExportHours(c.Request().Context(), claims.TenantID, year, time.Month(month))
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="hours_%d_%02d.csv"`, year, month))
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	w.Comma = ';'
	_ = w.Write([]string{"Name", "Date", "Hours", "Note"})
	for _, r := range rows {
		_ = w.Write([]string{
			r.Name,
			r.Date.Format("2006-01-02"),
			strconv.FormatFloat(r.Hours, 'f', 2, 64),
			r.Note,
		})
	}
	w.Flush()
	return w.Error()
}
