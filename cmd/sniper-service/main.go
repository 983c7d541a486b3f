package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"stock-sniper/internal/entity"
	"stock-sniper/internal/scanner/config"
	delivery "stock-sniper/internal/scanner/delivery/http"
	_ "stock-sniper/internal/scanner/docs"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/internal/scanner/service"
	"stock-sniper/pkg/logger"
	"stock-sniper/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	configPath string
	jsonOutput bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API and the cron-driven scan and rebuild jobs",
	Run:   runServe,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Runs one scan pass and prints the report",
	Run:   runScan,
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuilds the 200-session baselines",
	Run:   runRebuild,
}

func bootstrap(requireInfra bool) (*app, *logger.Logger) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	a, err := newApp(cfg, appLogger, requireInfra)
	if err != nil {
		appLogger.Fatal("Failed to initialize application", logger.ErrorField(err))
	}
	return a, appLogger
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, appLogger := bootstrap(true)
	defer a.Close()
	defer func() { _ = appLogger.Sync() }()
	cfg := a.cfg

	appLogger.Info("Starting Sniper Service", logger.Field("name", cfg.App.Name), logger.BoolField("legacy_mode", cfg.Scanner.LegacyMode))

	if cfg.Baseline.LoadOnStart {
		if err := a.loadBaselines(ctx, false); err != nil {
			appLogger.Warn("Baseline load failed", logger.ErrorField(err))
		}
	}

	scheduler, err := service.NewSchedulerService(a.executor, appLogger, cfg.Schedule.PollingInterval, cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize scheduler", logger.ErrorField(err))
	}
	go scheduler.Start(ctx)

	e := delivery.NewRouter(
		delivery.NewReportHandler(a.scanSvc, appLogger),
		delivery.NewBaselineHandler(a.store),
		delivery.NewJobHandler(ctx, a.executor, cfg, appLogger),
	)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}
	scheduler.Wait()
	appLogger.Info("Server exiting")
}

func runScan(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, appLogger := bootstrap(false)
	defer a.Close()
	defer func() { _ = appLogger.Sync() }()

	if err := a.loadBaselines(ctx, true); err != nil {
		appLogger.Fatal("Failed to prepare baselines", logger.ErrorField(err))
	}

	report, summary, err := a.scanSvc.Scan(ctx)
	if err != nil {
		appLogger.Error("Scan finished with errors", logger.ErrorField(err))
	}
	if report == nil {
		os.Exit(1)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(dto.NewReportResponse(*report))
	} else {
		printReport(*report, summary)
	}
	if err != nil {
		os.Exit(1)
	}
}

func runRebuild(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, appLogger := bootstrap(false)
	defer a.Close()
	defer func() { _ = appLogger.Sync() }()

	job := service.BaselineRebuildJob(a.cfg, service.TriggerCLI)
	history, err := a.executor.Execute(ctx, &job)
	if history != nil && len(history.Output) > 0 {
		fmt.Println(string(history.Output))
	}
	if err != nil {
		appLogger.Fatal("Baseline rebuild failed", logger.ErrorField(err))
	}
}

func printReport(report entity.Report, summary *dto.ScanSummary) {
	fmt.Printf("Scan %s at %s\n", report.ScanID, utils.PrettyDate(report.GeneratedAt))
	if summary != nil {
		fmt.Printf("Universe %d | quotes %d | failed batches %d | signals %d | took %s\n\n",
			summary.Universe, summary.Quotes, summary.FailedBatches, report.Total, summary.Duration)
	}
	if report.Total == 0 {
		fmt.Println("No signals in this scan.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tCODE\tNAME\tPRICE\tDIFF%\tTIER\tREMARK\tHEADLINE")
	for i, it := range report.Items {
		diff := "N/A"
		if it.DiffFromLowPct != nil {
			diff = fmt.Sprintf("%.2f", *it.DiffFromLowPct)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, it.Code, it.Name, utils.FormatPrice(&it.Price), diff, it.Tier, it.Remark, it.Headline)
	}
	_ = w.Flush()
}

// @title TWSE Sniper API
// @version 1.0
// @description Baseline-driven TWSE signal scanner: reports, baselines and on-demand jobs.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "sniper-service"}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-sniper.yaml", "Path to the configuration file")
	scanCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")

	rootCmd.AddCommand(serveCmd, scanCmd, rebuildCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing sniper-service CLI: %s\n", err)
		os.Exit(1)
	}
}
