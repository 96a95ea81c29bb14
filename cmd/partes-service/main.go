package main

import (
	"fmt"
	"os"

	"github.com/logistica/partes-service/internal/auth"
	"github.com/logistica/partes-service/internal/config"
	"github.com/logistica/partes-service/internal/db"
	"github.com/logistica/partes-service/internal/excel"
	httphandler "github.com/logistica/partes-service/internal/http"
	"github.com/logistica/partes-service/internal/http/middleware"
	"github.com/logistica/partes-service/internal/logger"
	"github.com/logistica/partes-service/internal/pdf"
	"github.com/logistica/partes-service/internal/repository"
	"github.com/logistica/partes-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	reportRepo := repository.NewReportRepository(database)
	referenceRepo := repository.NewReferenceRepository(database)
	userRepo := repository.NewUserRepository(database)

	pdfGenerator, err := pdf.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}
	excelGenerator := excel.NewGenerator()

	tokenIssuer := auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)
	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	authService := service.NewAuthService(userRepo, referenceRepo, tokenIssuer)
	reportService := service.NewReportService(reportRepo, excelGenerator, pdfGenerator)
	referenceService := service.NewReferenceService(referenceRepo, cfg.Editor.LoadTimeout)
	catalogService := service.NewCatalogService(referenceRepo)

	handler := httphandler.NewHandler(authService, reportService, referenceService, catalogService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting partes service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
