package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/npyskills/contact-api/internal/config"
	"github.com/npyskills/contact-api/internal/handler"
	"github.com/npyskills/contact-api/internal/lib/utils"
	"github.com/npyskills/contact-api/internal/logger"
	"github.com/npyskills/contact-api/internal/notify"
	"github.com/npyskills/contact-api/internal/router"
	"github.com/npyskills/contact-api/internal/server"
	"github.com/npyskills/contact-api/internal/service"
)

const shutdownTimeout = 30 * time.Second

func main() {
	checkProviders := flag.Bool("check-providers", false, "print which notification channels are configured and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if *checkProviders {
		log := logger.NewLogger(cfg.Observability)
		statuses := notify.NewFromConfig(cfg, &log).Statuses()
		if err := utils.PrintJSON(os.Stdout, statuses); err != nil {
			log.Fatal().Err(err).Msg("failed to print provider status")
		}
		return
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	services := service.NewServices(srv)
	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited properly")
}
