package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/config"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/internal/scanner/service"
	"stock-sniper/pkg/logger"
	"stock-sniper/pkg/utils"

	"github.com/labstack/echo/v4"
)

// JobHandler triggers jobs on demand and lists their executions.
type JobHandler struct {
	baseCtx  context.Context
	executor service.ExecutorService
	cfg      *config.Config
	logger   *logger.Logger
}

// NewJobHandler creates a new JobHandler. Jobs started asynchronously run under
// baseCtx, so they stop when the server shuts down.
func NewJobHandler(baseCtx context.Context, executor service.ExecutorService, cfg *config.Config, logger *logger.Logger) *JobHandler {
	return &JobHandler{baseCtx: baseCtx, executor: executor, cfg: cfg, logger: logger}
}

// RegisterRoutes registers the job routes to the Echo group.
func (h *JobHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/scan", h.TriggerScan)
	g.POST("/rebuild", h.TriggerRebuild)
	g.GET("/history", h.GetHistory)
}

// TriggerScan godoc
// @Summary Run a scan
// @Description Start a scan pass. With wait=true the call blocks until the scan finishes.
// @Tags jobs
// @Produce  json
// @Param   wait  query  bool  false  "Block until the scan finishes"
// @Success 200 {object} dto.JobTriggerResponse
// @Success 202 {object} dto.JobTriggerResponse
// @Failure 409 {object} dto.JobTriggerResponse
// @Failure 500 {object} dto.JobTriggerResponse
// @Router /jobs/scan [post]
func (h *JobHandler) TriggerScan(c echo.Context) error {
	job := service.ScanJob(h.cfg, service.TriggerAPI)
	return h.trigger(c, &job)
}

// TriggerRebuild godoc
// @Summary Rebuild baselines
// @Description Start a baseline rebuild. With wait=true the call blocks until it finishes.
// @Tags jobs
// @Produce  json
// @Param   wait  query  bool  false  "Block until the rebuild finishes"
// @Success 200 {object} dto.JobTriggerResponse
// @Success 202 {object} dto.JobTriggerResponse
// @Failure 409 {object} dto.JobTriggerResponse
// @Failure 500 {object} dto.JobTriggerResponse
// @Router /jobs/rebuild [post]
func (h *JobHandler) TriggerRebuild(c echo.Context) error {
	job := service.BaselineRebuildJob(h.cfg, service.TriggerAPI)
	return h.trigger(c, &job)
}

func (h *JobHandler) trigger(c echo.Context, job *entity.Job) error {
	wait, _ := strconv.ParseBool(c.QueryParam("wait"))
	if !wait {
		utils.GoSafe(func() {
			if _, err := h.executor.Execute(h.baseCtx, job); err != nil {
				h.logger.Warn("Triggered job did not complete", logger.StringField("job", job.Name), logger.ErrorField(err))
			}
		})
		return c.JSON(http.StatusAccepted, dto.JobTriggerResponse{Job: job.Name, Status: "ACCEPTED"})
	}

	history, err := h.executor.Execute(c.Request().Context(), job)
	resp := dto.JobTriggerResponse{Job: job.Name}
	if history != nil {
		resp.Status = string(history.Status)
		resp.Output = string(history.Output)
	}
	if err == nil {
		return c.JSON(http.StatusOK, resp)
	}

	resp.Error = err.Error()
	if errors.Is(err, dto.ErrScanInProgress) || errors.Is(err, dto.ErrRebuildInProgress) || errors.Is(err, dto.ErrEmptyBaseline) {
		return c.JSON(http.StatusConflict, resp)
	}
	return c.JSON(http.StatusInternalServerError, resp)
}

// GetHistory godoc
// @Summary List job executions
// @Description List recent job executions, newest first
// @Tags jobs
// @Produce  json
// @Param   type   query  string  false  "Job type (SCAN or BASELINE_REBUILD)"
// @Param   limit  query  int     false  "Maximum number of records"
// @Success 200 {array} dto.JobHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /jobs/history [get]
func (h *JobHandler) GetHistory(c echo.Context) error {
	jobType := entity.JobType(c.QueryParam("type"))
	switch jobType {
	case "", entity.JobTypeScan, entity.JobTypeBaselineRebuild:
	default:
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid job type"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	histories, err := h.executor.History(c.Request().Context(), jobType, limit)
	if err != nil {
		h.logger.Error("Failed to get job history", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get job history"})
	}

	resp := make([]dto.JobHistoryResponse, 0, len(histories))
	for _, hist := range histories {
		resp = append(resp, dto.NewJobHistoryResponse(hist))
	}
	return c.JSON(http.StatusOK, resp)
}
