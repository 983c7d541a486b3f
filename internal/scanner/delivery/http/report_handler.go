package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/internal/scanner/service"
	"stock-sniper/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ReportHandler serves scan reports.
type ReportHandler struct {
	scanService service.ScanService
	logger      *logger.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(scanService service.ScanService, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{scanService: scanService, logger: logger}
}

// RegisterRoutes registers the report routes to the Echo group.
func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListReports)
	g.GET("/latest", h.GetLatestReport)
	g.GET("/:scan_id", h.GetReportByScanID)
}

// GetLatestReport godoc
// @Summary Get the latest report
// @Description Get the most recent scan report, optionally filtered
// @Tags reports
// @Produce  json
// @Param   tiers      query  string  false  "Comma separated tiers, e.g. BreakoutHigh,DeepLow"
// @Param   min_price  query  number  false  "Minimum price"
// @Param   max_price  query  number  false  "Maximum price"
// @Param   min_diff   query  number  false  "Minimum distance from the 200-session low, in percent"
// @Param   max_diff   query  number  false  "Maximum distance from the 200-session low, in percent"
// @Param   keyword    query  string  false  "Substring of remark or headline"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /reports/latest [get]
func (h *ReportHandler) GetLatestReport(c echo.Context) error {
	filter, err := parseReportFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	report, err := h.scanService.LatestReport(c.Request().Context())
	if err != nil {
		return h.reportError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewReportResponse(filter.Apply(*report)))
}

// GetReportByScanID godoc
// @Summary Get a report by scan ID
// @Description Get the report of one scan pass, optionally filtered
// @Tags reports
// @Produce  json
// @Param   scan_id  path   string  true   "Scan ID"
// @Param   tiers    query  string  false  "Comma separated tiers"
// @Param   keyword  query  string  false  "Substring of remark or headline"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /reports/{scan_id} [get]
func (h *ReportHandler) GetReportByScanID(c echo.Context) error {
	filter, err := parseReportFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	report, err := h.scanService.ReportByScanID(c.Request().Context(), c.Param("scan_id"))
	if err != nil {
		return h.reportError(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewReportResponse(filter.Apply(*report)))
}

// ListReports godoc
// @Summary List recent reports
// @Description List the most recent scan passes without their items
// @Tags reports
// @Produce  json
// @Param   limit  query  int  false  "Maximum number of reports"
// @Success 200 {array} dto.ReportSummaryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) ListReports(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	reports, err := h.scanService.ListReports(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list reports", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list reports"})
	}

	resp := make([]dto.ReportSummaryResponse, 0, len(reports))
	for _, r := range reports {
		resp = append(resp, dto.NewReportSummaryResponse(r))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) reportError(c echo.Context, err error) error {
	if errors.Is(err, dto.ErrReportNotFound) {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Report not found"})
	}
	h.logger.Error("Failed to load report", logger.ErrorField(err))
	return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load report"})
}

func parseReportFilter(c echo.Context) (dto.ReportFilter, error) {
	var filter dto.ReportFilter

	for _, raw := range c.QueryParams()["tiers"] {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			t, ok := entity.ParseTier(s)
			if !ok {
				return filter, fmt.Errorf("unknown tier %q", s)
			}
			filter.Tiers = append(filter.Tiers, t)
		}
	}

	bounds := []struct {
		name string
		dst  **float64
	}{
		{"min_price", &filter.MinPrice},
		{"max_price", &filter.MaxPrice},
		{"min_diff", &filter.MinDiff},
		{"max_diff", &filter.MaxDiff},
	}
	for _, b := range bounds {
		raw := c.QueryParam(b.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid %s %q", b.name, raw)
		}
		*b.dst = &v
	}

	filter.Keyword = strings.TrimSpace(c.QueryParam("keyword"))
	return filter, nil
}
