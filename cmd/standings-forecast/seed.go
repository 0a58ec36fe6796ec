package main

import (
	"context"
	"fmt"

	"github.com/iwvelando/standings-forecast/internal/config"
	"github.com/iwvelando/standings-forecast/internal/source"
	"github.com/iwvelando/standings-forecast/internal/standings"
	"go.uber.org/zap"
)

// migrator is implemented by stores that need their schema created first.
type migrator interface {
	Migrate(ctx context.Context) error
}

// runSeed copies the file seed at cfg.Path into the store named by cfg.Source.
func runSeed(ctx context.Context, logger *zap.Logger, cfg config.StandingsConfig) error {
	rows, err := source.NewFile(cfg.Path, logger).Load(ctx)
	if err != nil {
		return err
	}

	target, err := source.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = target.Close()
	}()

	return seedStore(ctx, logger, target, rows)
}

func seedStore(ctx context.Context, logger *zap.Logger, target source.Source, rows []standings.Row) error {
	if _, err := standings.NewTable(rows); err != nil {
		return fmt.Errorf("refusing to seed invalid standings: %w", err)
	}

	seeder, ok := target.(source.Seeder)
	if !ok {
		return fmt.Errorf("standings source %T cannot be seeded", target)
	}
	if m, ok := target.(migrator); ok {
		if err := m.Migrate(ctx); err != nil {
			return err
		}
	}
	if err := seeder.Seed(ctx, rows); err != nil {
		return err
	}

	logger.Info("standings seeded",
		zap.String("op", "main.seedStore"),
		zap.Int("teams", len(rows)),
	)
	return nil
}
