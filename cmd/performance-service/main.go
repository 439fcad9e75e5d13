package main

import (
	"fmt"
	"os"

	"github.com/inymo/project-performance/internal/auth"
	"github.com/inymo/project-performance/internal/config"
	"github.com/inymo/project-performance/internal/db"
	"github.com/inymo/project-performance/internal/excel"
	httphandler "github.com/inymo/project-performance/internal/http"
	"github.com/inymo/project-performance/internal/http/middleware"
	"github.com/inymo/project-performance/internal/logger"
	"github.com/inymo/project-performance/internal/pdf"
	"github.com/inymo/project-performance/internal/repository"
	"github.com/inymo/project-performance/internal/service"
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

	projectRepo := repository.NewProjectRepository(database)
	ledgerRepo := repository.NewLedgerRepository(database)

	perfService := service.NewPerformanceService(projectRepo, ledgerRepo, cfg, log)
	ledgerService := service.NewLedgerService(projectRepo, ledgerRepo, perfService, log)

	pdfGenerator, err := pdf.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}
	reportService := service.NewReportService(perfService, ledgerRepo, pdfGenerator, excel.NewGenerator())

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(perfService, ledgerService, reportService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting performance service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
