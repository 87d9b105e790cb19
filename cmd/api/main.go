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

	"github.com/joho/godotenv"
	alertapp "github.com/training-mne-api/internal/application/alert"
	"github.com/training-mne-api/internal/application/monitor"
	"github.com/training-mne-api/internal/application/notification"
	"github.com/training-mne-api/internal/application/scheduler"
	"github.com/training-mne-api/internal/config"
	"github.com/training-mne-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/training-mne-api/internal/infrastructure/jwt"
	s3infra "github.com/training-mne-api/internal/infrastructure/s3"
	"github.com/training-mne-api/internal/infrastructure/smtp"
	"github.com/training-mne-api/internal/infrastructure/sns"
	transporthttp "github.com/training-mne-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for scan report archives.
	s3Client := s3infra.NewClient(cfg)
	reportStore := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional — graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	partnerRepo := dynamo.NewPartnerRepo(dynamoClient, cfg.DynamoTables.Partners)
	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	cohortRepo := dynamo.NewCohortRepo(dynamoClient, cfg.DynamoTables.Cohorts)
	enrollmentRepo := dynamo.NewEnrollmentRepo(dynamoClient, cfg.DynamoTables.Enrollments)
	attendanceRepo := dynamo.NewAttendanceRepo(dynamoClient, cfg.DynamoTables.Attendance)
	scoreRepo := dynamo.NewScoreRepo(dynamoClient, cfg.DynamoTables.Scores)
	surveyRepo := dynamo.NewSurveyRepo(dynamoClient, cfg.DynamoTables.Surveys, cfg.DynamoTables.SurveyResponses)
	alertRepo := dynamo.NewAlertRepo(dynamoClient, cfg.DynamoTables.Alerts)
	openKeyRepo := dynamo.NewOpenAlertKeyRepo(dynamoClient, cfg.DynamoTables.OpenAlertKeys)
	notificationRepo := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)
	auditRepo := dynamo.NewAuditRepo(dynamoClient, cfg.DynamoTables.AuditLog)

	emitter := notification.NewEmitter(notification.EmitterDeps{
		NotificationRepo: notificationRepo,
		PartnerRepo:      partnerRepo,
		UserRepo:         userRepo,
		SMSSender:        smsSender,
		Mailer:           mailer,
	})
	alertSvc := alertapp.NewService(alertapp.ServiceDeps{
		AlertRepo:   alertRepo,
		OpenKeyRepo: openKeyRepo,
		AuditRepo:   auditRepo,
		Emitter:     emitter,
	})
	notifSvc := notification.NewService(notificationRepo)

	mon := cfg.Monitoring
	attendanceGap := monitor.NewAttendanceGapDetector(cohortRepo, enrollmentRepo, attendanceRepo, mon.AttendanceGapWindow)
	completionLag := monitor.NewCompletionLagDetector(surveyRepo, mon.CompletionLagFraction, mon.CompletionCritical)
	statusMonitor := monitor.NewSurveyStatusMonitor(surveyRepo, mon.StatusMonitorWindow)
	consistency := monitor.NewConsistencyScanner(cohortRepo, enrollmentRepo, attendanceRepo, scoreRepo, mon.AttendanceStaleAfter)
	detectors := []monitor.Detector{attendanceGap, completionLag, statusMonitor, consistency}

	sched := scheduler.New(scheduler.Deps{
		PartnerRepo:    partnerRepo,
		AlertService:   alertSvc,
		ReportStore:    reportStore,
		PartnerTimeout: mon.PartnerScanTimeout,
		Entries: []scheduler.Entry{
			{Detector: attendanceGap, Period: mon.AttendancePeriod},
			{Detector: completionLag, Period: mon.CompletionPeriod},
			{Detector: statusMonitor, Period: mon.StatusMonitorPeriod},
			{Detector: consistency, Period: mon.ConsistencyPeriod},
		},
	})

	schedCtx, stopSched := context.WithCancel(context.Background())
	sched.Start(schedCtx)

	deps := &transporthttp.Deps{
		AlertService:        alertSvc,
		NotificationService: notifSvc,
		JWTProvider:         jwtProvider,
		Scanner:             sched,
		Detectors:           detectors,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopSched()
	sched.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
