package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/restauranthub/timetracker/internal/core/ports"
)

// TimeEntryHandler serves the employee-facing time registration endpoints.
type TimeEntryHandler struct {
	entryService ports.TimeEntryService
}

func NewTimeEntryHandler(entryService ports.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{entryService: entryService}
}

type createEntryRequest struct {
	Date  string `json:"date" form:"date" validate:"required"`
	Start string `json:"start" form:"start" validate:"required"`
	End   string `json:"end" form:"end" validate:"required"`
	Note  string `json:"note" form:"note"`
}

// List handles GET /entries.
func (h *TimeEntryHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	entries, err := h.entryService.List(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// Create handles POST /entries. Date is "2006-01-02", times are "15:04".
func (h *TimeEntryHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	start, err := time.Parse("15:04", req.Start)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start must be HH:MM")
	}
	end, err := time.Parse("15:04", req.End)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "end must be HH:MM")
	}

	entry, err := h.entryService.Create(c.Request().Context(), ports.CreateEntryInput{
		UserID:   claims.UserID,
		TenantID: claims.TenantID,
		Date:     date,
		Start:    start,
		End:      end,
		Note:     req.Note,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

// Delete handles DELETE /entries/:id. Another user's entry id yields 404.
func (h *TimeEntryHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.entryService.Delete(c.Request().Context(), claims.UserID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Summary handles GET /entries/summary?year=&month=; defaults to the current
// month.
func (h *TimeEntryHandler) Summary(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	year := now.Year()
	month := now.Month()
	if q := c.QueryParam("year"); q != "" {
		y, err := strconv.Atoi(q)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		year = y
	}
	if q := c.QueryParam("month"); q != "" {
		m, err := strconv.Atoi(q)
		if err != nil || m < 1 || m > 12 {
			return echo.NewHTTPError(http.StatusBadRequest, "month must be 1-12")
		}
		month = time.Month(m)
	}

	summary, err := h.entryService.Summary(c.Request().Context(), claims.UserID, year, month)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
