package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/absensi-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/absensi-backend-go/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/absensi-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/absensi-backend-go/internal/service/employee"
	employeeDashboardService "github.com/cmlabs-hris/absensi-backend-go/internal/service/employee_dashboard"
	leaveService "github.com/cmlabs-hris/absensi-backend-go/internal/service/leave"
	policyService "github.com/cmlabs-hris/absensi-backend-go/internal/service/policy"
	reportService "github.com/cmlabs-hris/absensi-backend-go/internal/service/report"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := config.NewLogger(os.Stdout, cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn := cfg.DatabaseURL()
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, dsn); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	txManager := postgresql.NewTxManager(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	leaveQuotaRepo := postgresql.NewLeaveQuotaRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return err
	}

	attendanceSvc := attendanceService.NewAttendanceService(txManager, attendanceRepo, employeeRepo, settingsRepo, auditRepo, leaveQuotaRepo, nil)
	policySvc := policyService.NewPolicyService(txManager, settingsRepo, auditRepo)
	dashboardSvc := dashboardService.NewDashboardService(attendanceRepo, employeeRepo, settingsRepo, nil)
	empDashboardSvc := employeeDashboardService.NewEmployeeDashboardService(attendanceRepo, settingsRepo, nil)
	reportSvc := reportService.NewReportService(reportRepo, settingsRepo, nil)
	employeeSvc := employeeService.NewEmployeeService(txManager, employeeRepo, leaveQuotaRepo, settingsRepo, auditRepo, nil)
	leaveSvc := leaveService.NewLeaveService(leaveQuotaRepo, settingsRepo, nil)

	router := appHTTP.NewRouter(logger, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.CORSOrigins,
		LogLevel:       config.ParseLevel(cfg.App.LogLevel),
	}, JWTService, appHTTP.Handlers{
		Attendance:        appHTTP.NewAttendanceHandler(attendanceSvc),
		Settings:          appHTTP.NewSettingsHandler(policySvc),
		Dashboard:         appHTTP.NewDashboardHandler(dashboardSvc),
		EmployeeDashboard: appHTTP.NewEmployeeDashboardHandler(empDashboardSvc),
		Report:            appHTTP.NewReportHandler(reportSvc),
		Employee:          appHTTP.NewEmployeeHandler(employeeSvc),
		Leave:             appHTTP.NewLeaveHandler(leaveSvc),
	})

	scheduler := cron.NewScheduler(logger)
	if cfg.Jobs.AbsenceReconciliationEnabled {
		cron.NewAbsenceJobs(attendanceSvc, settingsRepo, cfg.Jobs.SkipWeekends, nil).
			RegisterJobs(scheduler, cfg.Jobs.AbsenceReconciliationEvery)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
