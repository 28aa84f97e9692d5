package billing

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openlims/lims/internal/platform/auth"
)

// Handler exposes pricing and revenue over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/billing")
	g.GET("/prices", h.PriceList)
	g.GET("/revenue", h.Revenue, auth.RequireRole("admin"))
}

func (h *Handler) PriceList(c echo.Context) error {
	items, err := h.svc.PriceList(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// Revenue reports daily totals for a date window. Defaults to the last 30
// days when bounds are omitted.
func (h *Handler) Revenue(c echo.Context) error {
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date, want YYYY-MM-DD")
		}
		from = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date, want YYYY-MM-DD")
		}
		to = t
	}
	if to.Before(from) {
		return echo.NewHTTPError(http.StatusBadRequest, "to precedes from")
	}
	items, err := h.svc.RevenueByDay(c.Request().Context(), from, to)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
