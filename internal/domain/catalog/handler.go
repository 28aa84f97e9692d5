package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openlims/lims/internal/platform/auth"
)

// Handler exposes the test menu over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/catalog")
	g.GET("/test-groups", h.ListGroups)
	g.GET("/test-groups/:name/analytes", h.ListAnalytes)
	g.POST("/test-groups/:name/analytes", h.AddAnalyte, auth.RequireRole("admin"))
}

func (h *Handler) ListGroups(c echo.Context) error {
	items, err := h.svc.ListGroups(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListAnalytes(c echo.Context) error {
	items, err := h.svc.AnalytesForGroup(c.Request().Context(), c.Param("name"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) AddAnalyte(c echo.Context) error {
	var in Analyte
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.svc.AddAnalyte(c.Request().Context(), c.Param("name"), in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if a == nil {
		return echo.NewHTTPError(http.StatusNotFound, "test group not found")
	}
	return c.JSON(http.StatusCreated, a)
}
