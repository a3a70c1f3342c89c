// Package app wires storage, the processing backend and the deck service
// from configuration. It is shared by the server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/pitchdeck-server/internal/config"
	"github.com/dtroode/pitchdeck-server/internal/export/pptx"
	"github.com/dtroode/pitchdeck-server/internal/logger"
	"github.com/dtroode/pitchdeck-server/internal/model"
	"github.com/dtroode/pitchdeck-server/internal/pipeline"
	"github.com/dtroode/pitchdeck-server/internal/repository/decks"
	"github.com/dtroode/pitchdeck-server/internal/repository/kv"
	"github.com/dtroode/pitchdeck-server/internal/repository/postgres"
	"github.com/dtroode/pitchdeck-server/internal/repository/sqlite"
	"github.com/dtroode/pitchdeck-server/internal/service"
	miniostorage "github.com/dtroode/pitchdeck-server/internal/storage/minio"
	"github.com/dtroode/pitchdeck-server/internal/storage/local"
)

type database interface {
	Ping(ctx context.Context) error
	Close() error
}

// App holds the wired deck service and the resources it owns.
type App struct {
	Decks *service.Deck
	db    database
}

// New opens the configured database and blob store and builds the deck service.
func New(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*App, error) {
	db, store, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	blobs, err := openBlobs(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	client, err := pipeline.NewClient(pipeline.Config{
		BaseURL: cfg.Pipeline.BaseURL,
		Timeout: cfg.Pipeline.Timeout,
	}, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create pipeline client: %w", err)
	}

	exporter := pptx.NewExporter(
		pptx.NewHTTPImageSource(cfg.Export.ImageTimeout, cfg.Export.MaxImageBytes),
		cfg.Export.ImageConcurrency,
		logger,
	)

	return &App{
		Decks: service.NewDeck(store, blobs, client, exporter, cfg.Export.DefaultTheme, logger),
		db:    db,
	}, nil
}

func openStore(ctx context.Context, cfg config.Database, logger *logger.Logger) (database, *decks.Repository, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		conn, err := sqlite.NewConnection(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		return conn, decks.NewRepository(kv.NewSQLStore(conn.DB(), kv.SQLite), logger), nil
	case config.DriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
		return conn, decks.NewRepository(kv.NewSQLStore(conn.DB(), kv.Postgres), logger), nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openBlobs(ctx context.Context, cfg *config.Config) (model.BlobStore, error) {
	switch cfg.Storage.Backend {
	case config.StorageLocal:
		store, err := local.NewStore(cfg.Storage.LocalDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local video storage: %w", err)
		}
		return store, nil
	case config.StorageMinIO:
		minioClient, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		store, err := miniostorage.NewClient(ctx, minioClient, cfg.MinIO.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize minio video storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}

// Ping checks the database connection.
func (a *App) Ping(ctx context.Context) error {
	return a.db.Ping(ctx)
}

// Close releases the database connection.
func (a *App) Close() error {
	return a.db.Close()
}
