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

	"github.com/cmlabs-hris/line-attendance-go/internal/config"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/auth"
	domainNotification "github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/settings"
	appHTTP "github.com/cmlabs-hris/line-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/line"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/line-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/line-attendance-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/line-attendance-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/line-attendance-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/line-attendance-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/line-attendance-go/internal/service/notification"
	settingsService "github.com/cmlabs-hris/line-attendance-go/internal/service/settings"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: httplog.SchemaECS.Concise(cfg.App.Env != "production").ReplaceAttr,
	})).With(
		slog.String("app", "line-attendance"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.PoolConfig())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if err := postgresql.EnsureSchema(ctx, db); err != nil {
		return err
	}

	loc := cfg.Location()

	// Runtime settings
	defaults := settings.DefaultSnapshot(cfg.App.CompanyName, loc, cfg.Geofence.Enforce)
	var source settings.Source
	if cfg.Settings.FilePath != "" {
		source = settingsService.NewYAMLSource(cfg.Settings.FilePath, defaults)
	} else {
		source = postgresql.NewSettingsSource(db, defaults)
	}
	settingsProvider := settingsService.NewProvider(source, cfg.Settings.CacheTTL, nil)
	if _, err := settingsProvider.Get(ctx); err != nil {
		return fmt.Errorf("error loading settings: %w", err)
	}

	// Notifications
	hub := sse.NewHub()
	notificationLogRepo := postgresql.NewNotificationLogRepository(db)
	notifiers := []domainNotification.Notifier{
		notificationService.NewHubNotifier(hub),
		notificationService.NewStoreNotifier(notificationLogRepo),
	}
	if cfg.Line.ChannelAccessToken != "" {
		lineNotifier, err := notificationService.NewLineNotifier(cfg.Line.ChannelAccessToken)
		if err != nil {
			return fmt.Errorf("error initializing LINE notifier: %w", err)
		}
		notifiers = append(notifiers, lineNotifier)
	} else {
		slog.Warn("LINE_CHANNEL_ACCESS_TOKEN not set, LINE push disabled")
	}
	if cfg.Slack.BotToken != "" {
		notifiers = append(notifiers, notificationService.NewSlackNotifier(cfg.Slack.BotToken, cfg.Slack.HRChannel))
	}
	notifier := notificationService.NewNotificationService(notificationService.Config{}, notifiers...)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("error initializing JWT service: %w", err)
	}

	// a nil *line.Verifier must not end up inside the interface
	var verifier auth.LineVerifier
	if cfg.Line.ChannelID != "" {
		verifier = line.NewVerifier(cfg.Line.ChannelID)
	} else {
		slog.Warn("LINE_CHANNEL_ID not set, LIFF id tokens are not verified")
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	benefitsRepo := postgresql.NewBenefitsRepository(db)
	adminRepo := postgresql.NewAdminRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	transactor := postgresql.NewTransactor(db)

	authSvc := serviceAuth.NewAuthService(employeeRepo, adminRepo, JWTService, verifier, notifier)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, settingsProvider, notifier, nil)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, benefitsRepo, attendanceRepo, settingsProvider, notifier)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo, employeeRepo, benefitsRepo, transactor, settingsProvider, notifier, nil)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.App.AllowedOrigins,
			Logger:         logger,
			LogLevel:       cfg.SlogLevel(),
		},
		JWTService,
		appHTTP.Handlers{
			Auth:         appHTTP.NewAuthHandler(authSvc),
			Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, nil),
			Employee:     appHTTP.NewEmployeeHandler(employeeSvc, nil),
			Leave:        appHTTP.NewLeaveHandler(leaveSvc),
			Settings:     appHTTP.NewSettingsHandler(settingsProvider),
			Notification: appHTTP.NewNotificationHandler(hub, JWTService, notificationLogRepo),
		},
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceRepo, employeeRepo, leaveRequestRepo, settingsProvider, notifier, nil).RegisterJobs(scheduler)
	cron.RegisterSettingsRefresh(scheduler, settingsProvider, cfg.Settings.CacheTTL)
	scheduler.Start()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// SSE streams never finish on their own
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server did not shut down cleanly", "error", err)
		_ = srv.Close()
	}
	scheduler.Stop()
	if err := notifier.Close(shutdownCtx); err != nil {
		slog.Warn("Notification queue not fully drained", "error", err)
	}

	slog.Info("Server stopped")
	return nil
}
