package result

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/openlims/lims/internal/platform/auth"
	"github.com/openlims/lims/internal/workflow"
	"github.com/openlims/lims/pkg/pagination"
)

// Handler exposes result entry and review over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/orders/:id/results", h.Submit, auth.RequireRole("admin", "technician"))
	api.GET("/orders/:id/results", h.ListByOrder)

	g := api.Group("/results")
	g.GET("/abnormal", h.ListAbnormal, auth.RequireRole("admin", "doctor", "technician"))
	g.GET("/:id", h.Get)
	g.POST("/:id/approve", h.Approve, auth.RequireRole("admin", "doctor"))
	g.POST("/:id/reject", h.Reject, auth.RequireRole("admin", "doctor"))
	g.POST("/:id/report", h.MarkReported, auth.RequireRole("admin", "doctor"))
	g.POST("/:id/revert", h.Revert, auth.RequireRole("admin", "doctor"))
}

func (h *Handler) Submit(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	var in SubmitInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	res, err := h.svc.Submit(c.Request().Context(), orderID, in, auth.Actor(c))
	if err != nil {
		return mapError(err)
	}
	if res == nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid result id")
	}
	res, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if res == nil {
		return echo.NewHTTPError(http.StatusNotFound, "result not found")
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ListByOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	items, err := h.svc.ListByOrder(c.Request().Context(), orderID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListAbnormal(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAbnormal(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Approve(c echo.Context) error {
	return h.transition(c, h.svc.Approve)
}

func (h *Handler) Reject(c echo.Context) error {
	return h.transition(c, h.svc.Reject)
}

func (h *Handler) MarkReported(c echo.Context) error {
	return h.transition(c, h.svc.MarkReported)
}

func (h *Handler) Revert(c echo.Context) error {
	return h.transition(c, h.svc.RevertToUnderReview)
}

type transitionOp func(ctx context.Context, resultID uuid.UUID, actor string) (*Result, error)

func (h *Handler) transition(c echo.Context, op transitionOp) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid result id")
	}
	res, err := op(c.Request().Context(), id, auth.Actor(c))
	if err != nil {
		return mapError(err)
	}
	if res == nil {
		return echo.NewHTTPError(http.StatusNotFound, "result not found")
	}
	return c.JSON(http.StatusOK, res)
}

// mapError translates workflow errors to HTTP statuses.
func mapError(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	}
	var te *workflow.InvalidTransitionError
	if errors.As(err, &te) {
		return echo.NewHTTPError(http.StatusConflict, te.Error())
	}
	var pe *workflow.PreconditionError
	if errors.As(err, &pe) {
		return echo.NewHTTPError(http.StatusConflict, pe.Reason)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
