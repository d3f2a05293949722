// Command server runs the back-in-stock notification API: it accepts stock
// requests from storefront customers, listens to inventory webhooks, and
// emails waiting customers when a variant is restocked.
//
//	@title			Restock Notification API
//	@version		1.0
//	@description	Back-in-stock email notification service: stock request intake, inventory webhooks, and delivery tracking.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/tbourn/go-restock-backend/docs"
	"github.com/tbourn/go-restock-backend/internal/config"
	httpapi "github.com/tbourn/go-restock-backend/internal/http"
	"github.com/tbourn/go-restock-backend/internal/notifier"
	"github.com/tbourn/go-restock-backend/internal/observability"
	"github.com/tbourn/go-restock-backend/internal/repo"
	"github.com/tbourn/go-restock-backend/internal/services"
	"github.com/tbourn/go-restock-backend/internal/store"
	"github.com/tbourn/go-restock-backend/internal/sysutil"
)

var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	st, closeStore, err := buildStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("store init failed")
	}
	defer closeStore()

	n := buildNotifier(cfg)

	matcher := services.NewMatchingService(st)
	dispatcher := services.NewDispatchService(n, cfg.Dispatch.Workers, cfg.Dispatch.SendTimeout, cfg.Dispatch.JournalSize)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, st, matcher, dispatcher, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", version).
			Str("store", storeKind(cfg)).
			Str("store_name", sysutil.FirstNonEmpty(cfg.StoreName, "Our Store")).
			Bool("email_configured", cfg.SMTP.Host != "" && cfg.SMTP.From != "").
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	// Let in-flight notification deliveries finish before exiting.
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("dispatcher drain incomplete")
	}
	log.Info().Msg("server stopped")
}

// buildStore selects the request store: a SQLite-backed store when DB_PATH is
// set, otherwise the in-memory store (requests vanish on restart).
func buildStore(cfg config.Config) (store.RequestStore, func(), error) {
	if cfg.DBPath == "" {
		log.Warn().Msg("DB_PATH not set, stock requests are kept in memory only")
		return store.NewMemory(), func() {}, nil
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return repo.NewGormStore(db), closeFn, nil
}

// buildNotifier returns the SMTP notifier when credentials are present,
// otherwise a notifier that only logs what would have been sent.
func buildNotifier(cfg config.Config) notifier.Notifier {
	smtp := notifier.SMTPConfig{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Username:   cfg.SMTP.Username,
		Password:   cfg.SMTP.Password,
		From:       cfg.SMTP.From,
		Encryption: cfg.SMTP.Encryption,
		StoreURL:   cfg.StoreURL,
		StoreName:  cfg.StoreName,
	}
	if smtp.Configured() {
		return notifier.NewSMTPNotifier(smtp)
	}
	log.Warn().Msg("SMTP not configured, notifications will be logged instead of emailed")
	return notifier.LogNotifier{}
}

func storeKind(cfg config.Config) string {
	if cfg.DBPath == "" {
		return "memory"
	}
	return "sqlite"
}
