package app

import (
	"context"
	"fmt"
	"log"

	doccache "dfuse/internal/cache/canvasdoc"
	"dfuse/internal/config"
	"dfuse/internal/dataset"
	"dfuse/internal/insight"
	docrepo "dfuse/internal/repository/canvasdoc"
	"dfuse/internal/server"
)

type App struct {
	server *server.Server
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Dependencies
	docs := doccache.NewCachedStore(docrepo.NewFromEnv(cfg.CanvasStore.FilePath), doccache.DefaultCacheConfig())

	var datasets *dataset.S3Store
	if cfg.Dataset.Enabled {
		datasets, err = dataset.NewS3Store(dataset.S3Config{
			Endpoint:  cfg.Dataset.Endpoint,
			Region:    cfg.Dataset.Region,
			AccessKey: cfg.Dataset.AccessKey,
			SecretKey: cfg.Dataset.SecretKey,
			Bucket:    cfg.Dataset.Bucket,
			UseSSL:    cfg.Dataset.UseSSL,
		})
		if err != nil {
			log.Printf("dataset store disabled: %v", err)
			datasets = nil
		} else {
			log.Printf("dataset store: s3 bucket=%s endpoint=%s", cfg.Dataset.Bucket, cfg.Dataset.Endpoint)
		}
	}

	var insights insight.Generator
	if cfg.Insight.Enabled {
		gen, err := insight.NewGeminiGenerator(context.Background(), cfg.Insight.Model)
		if err != nil {
			log.Printf("insight generation disabled: %v", err)
		} else {
			insights = gen
			log.Printf("insight generation: %s", gen.Name())
		}
	}

	// Routing & Server
	mux := server.NewRouter(server.Deps{
		Docs:     docs,
		Datasets: datasets,
		Insights: insights,
	})
	srv := server.New(cfg.Port, cfg.ShutdownGrace, mux)

	return &App{
		server: srv,
	}, nil
}

// Run serves until ctx is cancelled, then drains.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}
