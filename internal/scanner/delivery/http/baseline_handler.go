package http

import (
	"net/http"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/internal/scanner/service"

	"github.com/labstack/echo/v4"
)

// BaselineHandler exposes the active baseline set.
type BaselineHandler struct {
	store *service.BaselineStore
}

// NewBaselineHandler creates a new BaselineHandler.
func NewBaselineHandler(store *service.BaselineStore) *BaselineHandler {
	return &BaselineHandler{store: store}
}

// RegisterRoutes registers the baseline routes to the Echo group.
func (h *BaselineHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetBaselines)
	g.GET("/:code", h.GetBaselineByCode)
}

// GetBaselines godoc
// @Summary List baselines
// @Description List the active 200-session baselines ordered by code
// @Tags baselines
// @Produce  json
// @Success 200 {object} dto.BaselineResponse
// @Router /baselines [get]
func (h *BaselineHandler) GetBaselines(c echo.Context) error {
	items := h.store.All()
	resp := dto.BaselineResponse{Total: len(items), Items: items}
	if at := h.store.GeneratedAt(); !at.IsZero() {
		resp.UpdatedAt = &at
	}
	if resp.Items == nil {
		resp.Items = []entity.InstrumentBaseline{}
	}
	return c.JSON(http.StatusOK, resp)
}

// GetBaselineByCode godoc
// @Summary Get a baseline
// @Description Get the active baseline of one instrument
// @Tags baselines
// @Produce  json
// @Param   code  path  string  true  "Instrument code"
// @Success 200 {object} entity.InstrumentBaseline
// @Failure 404 {object} dto.ErrorResponse
// @Router /baselines/{code} [get]
func (h *BaselineHandler) GetBaselineByCode(c echo.Context) error {
	b, ok := h.store.Get(c.Param("code"))
	if !ok {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Baseline not found"})
	}
	return c.JSON(http.StatusOK, b)
}
