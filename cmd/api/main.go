package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/presenza-hq/presenza-backend-go/internal/config"
	appHTTP "github.com/presenza-hq/presenza-backend-go/internal/handler/http"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/cron"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/database"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/facematch"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/jwt"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/sse"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/storage"
	"github.com/presenza-hq/presenza-backend-go/internal/repository/postgresql"
	attendanceService "github.com/presenza-hq/presenza-backend-go/internal/service/attendance"
	serviceAuth "github.com/presenza-hq/presenza-backend-go/internal/service/auth"
	employeeService "github.com/presenza-hq/presenza-backend-go/internal/service/employee"
	"github.com/presenza-hq/presenza-backend-go/internal/service/file"
	reportService "github.com/presenza-hq/presenza-backend-go/internal/service/report"
	requestService "github.com/presenza-hq/presenza-backend-go/internal/service/request"
	settingsService "github.com/presenza-hq/presenza-backend-go/internal/service/settings"
	trackingService "github.com/presenza-hq/presenza-backend-go/internal/service/tracking"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	trackingStateRepo := postgresql.NewTrackingStateRepository(db)
	pingRepo := postgresql.NewPingRepository(db)
	fenceRepo := postgresql.NewFenceRepository(db)
	requestRepo := postgresql.NewRequestRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	faceClient := facematch.NewClient(cfg.FaceMatch)
	hub := sse.NewHub()

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}

	fileService := file.NewFileService(fileStorage)
	authService := serviceAuth.NewAuthService(employeeRepo, JWTService)
	attendanceSvc := attendanceService.NewAttendanceService(
		db,
		sessionRepo,
		trackingStateRepo,
		requestRepo,
		employeeRepo,
		settingsRepo,
		faceClient,
		fileService,
		hub,
		cfg.FaceMatch,
	)
	trackingSvc := trackingService.NewTrackingService(
		db,
		sessionRepo,
		trackingStateRepo,
		pingRepo,
		fenceRepo,
		employeeRepo,
		settingsRepo,
		hub,
	)
	reportSvc := reportService.NewReportService(sessionRepo, requestRepo, employeeRepo, settingsRepo)
	requestSvc := requestService.NewRequestService(requestRepo, employeeRepo)
	settingsSvc := settingsService.NewSettingsService(settingsRepo)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, faceClient)

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authService),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Tracking:   appHTTP.NewTrackingHandler(trackingSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Request:    appHTTP.NewRequestHandler(requestSvc),
		Settings:   appHTTP.NewSettingsHandler(settingsSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Stream:     appHTTP.NewStreamHandler(hub),
	})

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(sessionRepo, trackingStateRepo, settingsRepo, hub)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		fmt.Println("Server shutdown error:", err)
	}
	db.Close()
}
