// Command export uploads a JSON snapshot of the video catalog to S3.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"video-catalog/cmd/config"
	"video-catalog/pkg/database"
	"video-catalog/pkg/export"
	"video-catalog/pkg/logging"
	"video-catalog/pkg/s3"
	"video-catalog/pkg/store"
)

func main() {
	confPath := flag.String("config", "", "config file path")
	timeout := flag.Duration("timeout", 2*time.Minute, "upload deadline")
	flag.Parse()

	cfg, err := config.Load(*confPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel(), "video-catalog-export")
	helper := log.NewHelper(logger)

	uploader, err := s3.NewUploader(cfg.AWS.Region, cfg.AWS.S3Bucket)
	if err != nil {
		helper.Fatalf("init s3: %v", err)
	}

	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.MaxOpenConns)
	if err != nil {
		helper.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	exporter := export.NewExporter(store.NewGormVideoStore(db, logger), uploader, cfg.Export.Prefix, logger)
	res, err := exporter.Run(ctx)
	if err != nil {
		helper.Errorf("export failed: %v", err)
		db.Close()
		os.Exit(1)
	}
	helper.Infof("exported %d videos to %s", res.Count, res.Location)
}
