package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"remitra/internal/config"
	"remitra/internal/email/noop"
	"remitra/internal/email/ses"
	"remitra/internal/handler"
	"remitra/internal/parser/openai"
	"remitra/internal/pdftext"
	"remitra/internal/port"
	"remitra/internal/recon"
	"remitra/internal/repository/postgres"
	"remitra/internal/router"
	"remitra/internal/service"
	s3storage "remitra/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	waybillRepo := postgres.NewWaybillRepo(db)
	tariffRepo := postgres.NewTariffRepo(db)
	vehicleRepo := postgres.NewVehicleRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email sender
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender(cfg.Email.FrontendURL)
	}

	// Initialize the extraction and reconciliation pipeline
	docParser := openai.NewParser(&cfg.Parser)
	textExtractor := pdftext.New()
	engine := recon.New(cfg.Recon.Engine())

	// Initialize services
	authSvc := service.NewAuthService(userRepo, emailSender, cfg.JWT)
	waybillSvc := service.NewWaybillService(waybillRepo, tariffRepo, vehicleRepo, s3Client, docParser, textExtractor, engine, cfg.S3)
	tariffSvc := service.NewTariffService(tariffRepo, waybillRepo)
	vehicleSvc := service.NewVehicleService(vehicleRepo, waybillRepo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	waybillH := handler.NewWaybillHandler(waybillSvc)
	tariffH := handler.NewTariffHandler(tariffSvc)
	vehicleH := handler.NewVehicleHandler(vehicleSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, waybillH, tariffH, vehicleH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
