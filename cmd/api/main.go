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

	"github.com/him1art1-dotcom/had-sub003/internal/config"
	appHTTP "github.com/him1art1-dotcom/had-sub003/internal/handler/http"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/broadcast"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/cron"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/database"
	"github.com/him1art1-dotcom/had-sub003/internal/pkg/jwt"
	"github.com/him1art1-dotcom/had-sub003/internal/repository/postgresql"
	checkinService "github.com/him1art1-dotcom/had-sub003/internal/service/checkin"
	remotesyncService "github.com/him1art1-dotcom/had-sub003/internal/service/remotesync"
	reportService "github.com/him1art1-dotcom/had-sub003/internal/service/report"
	rosterService "github.com/him1art1-dotcom/had-sub003/internal/service/roster"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	studentRepo := postgresql.NewStudentRepository(db)
	arrivalRepo := postgresql.NewArrivalRepository(db)
	syncSettingsRepo := postgresql.NewSyncSettingsRepository(db)
	syncStateRepo := postgresql.NewSyncStateRepository(db)
	reportStore := postgresql.NewReportClientStore(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := broadcast.NewHub()
	httpClient := &http.Client{Timeout: 30 * time.Second}

	schoolCode := cfg.School.Code

	rosterSvc := rosterService.NewRosterService(studentRepo, schoolCode)
	checkinSvc := checkinService.NewCheckInService(arrivalRepo, studentRepo, schoolCode)
	leaveApplier := checkinService.NewLeaveApplier(arrivalRepo, schoolCode)

	host := remotesyncService.NewHostAdapter(syncSettingsRepo, studentRepo, arrivalRepo, leaveApplier, schoolCode)
	manager := remotesyncService.NewManager(host, syncStateRepo, hub, httpClient, schoolCode)
	syncSvc := remotesyncService.NewSyncService(syncSettingsRepo, manager, hub, schoolCode)

	reportClient := reportService.NewClient(reportStore, hub, httpClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Start(ctx); err != nil {
		log.Fatal("Failed to start sync manager: ", err)
	}
	defer manager.Stop()

	reportClient.Start(ctx)
	defer reportClient.Stop()

	scheduler := cron.NewScheduler()
	retentionJobs := cron.NewRetentionJobs(arrivalRepo, schoolCode, cfg.School.RetentionDays)
	retentionJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	studentHandler := appHTTP.NewStudentHandler(rosterSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(checkinSvc)
	syncHandler := appHTTP.NewSyncHandler(syncSvc, hub)
	reportHandler := appHTTP.NewReportHandler(reportClient)

	router := appHTTP.NewRouter(
		jwtService,
		studentHandler,
		attendanceHandler,
		syncHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Server shutdown error:", err)
	}
}
