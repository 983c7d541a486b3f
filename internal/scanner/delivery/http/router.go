package http

import (
	"net/http"

	"stock-sniper/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	swagger "github.com/swaggo/echo-swagger"
)

// NewRouter mounts the API under /api/v1 next to /metrics, /healthz and /swagger.
func NewRouter(reports *ReportHandler, baselines *BaselineHandler, jobs *JobHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	apiV1 := e.Group("/api/v1")
	reports.RegisterRoutes(apiV1.Group("/reports"))
	baselines.RegisterRoutes(apiV1.Group("/baselines"))
	jobs.RegisterRoutes(apiV1.Group("/jobs"))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "baselines": baselines.store.Len()})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", swagger.WrapHandler)
	return e
}
