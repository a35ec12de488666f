package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"wwtp-carbon/internal/api"
	"wwtp-carbon/internal/carbon"
	"wwtp-carbon/internal/config"
	"wwtp-carbon/internal/logging"
	"wwtp-carbon/internal/pipeline"
	"wwtp-carbon/internal/session"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "Path to YAML config (optional)")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		c, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load config:", err)
			os.Exit(1)
		}
		cfg = c
	}
	cfg.ApplyEnv(os.Getenv)
	log := logging.New(cfg.Log)

	engine, err := carbon.New(cfg.Factors)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid emission factors")
	}

	if cfg.API.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reports := session.NewCache[*pipeline.Report](cfg.API.ReportTTL)
	go reports.Start(ctx, cfg.API.ReportTTL/4)

	staticDir := cfg.API.StaticDir
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	router := api.NewRouter(api.Deps{
		Engine:         engine,
		State:          session.NewState(),
		Reports:        reports,
		Ingest:         cfg.Ingest,
		Anomaly:        cfg.Anomaly,
		Log:            log,
		AllowedOrigins: cfg.API.AllowedOrigins,
		RateLimit:      cfg.API.RateLimit,
		RateBurst:      cfg.API.RateBurst,
		StaticDir:      staticDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.API.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	log.Info().Str("addr", srv.Addr).Str("env", cfg.API.Env).Msg("starting API server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}
