package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"

	"video-catalog/cmd/config"
	"video-catalog/pkg/database"
	"video-catalog/pkg/handlers"
	"video-catalog/pkg/logging"
	"video-catalog/pkg/service"
	"video-catalog/pkg/store"
)

func main() {
	confPath := flag.String("config", "", "config file path, eg: -config cmd/config/config.yaml")
	flag.Parse()

	cfg, err := config.Load(*confPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel(), "video-catalog")
	helper := log.NewHelper(logger)

	// Initialize the database
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.MaxOpenConns)
	if err != nil {
		helper.Fatalf("open database: %v", err)
	}
	defer db.Close()

	videos := service.NewVideoService(store.NewGormVideoStore(db, logger), logger)

	gin.SetMode(cfg.Server.Mode)
	r := handlers.NewRouter(handlers.New(videos, logger), handlers.RouterConfig{
		AllowOrigins: cfg.CORS.AllowOrigins,
	}, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		helper.Infof("server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		helper.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		helper.Errorf("server stopped: %v", err)
	}
}
