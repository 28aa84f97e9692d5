package reporting

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openlims/lims/internal/platform/auth"
	"github.com/openlims/lims/pkg/pagination"
)

// Handler exposes read access to report records.
type Handler struct {
	reports *PGReporter
}

func NewHandler(reports *PGReporter) *Handler {
	return &Handler{reports: reports}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/reports", auth.RequireRole("admin", "doctor"))
	g.GET("", h.ListReports)
}

func (h *Handler) ListReports(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.reports.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
