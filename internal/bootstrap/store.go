package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/config"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/ports"
	mongostore "github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/repository/mongo"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/repository/postgres"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/resilience"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/storage/localfs"
)

func newModelStore(ctx context.Context, cfg config.Config, exec *resilience.Executor, logger *slog.Logger) (ports.ModelStore, func(), error) {
	switch kind := storeKind(cfg); kind {
	case "", "localfs":
		store, err := localfs.New(cfg.ModelDir)
		if err != nil {
			return nil, nil, fmt.Errorf("init localfs model store: %w", err)
		}
		return store, func() {}, nil

	case "postgres":
		db, err := postgres.OpenDB(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		repo := postgres.NewModelRepository(db, exec)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return repo, func() { _ = db.Close() }, nil

	case "mongo", "mongodb":
		client, err := mongostore.Connect(ctx, cfg.MongoURI, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		collection := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Warn("mongo disconnect failed", "error", err)
			}
		}
		return mongostore.NewModelRepository(collection, exec), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown model store %q", kind)
	}
}
