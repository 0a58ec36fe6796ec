// Package source loads the points table from the configured backend.
package source

import (
	"context"
	"fmt"

	"github.com/iwvelando/standings-forecast/internal/config"
	"github.com/iwvelando/standings-forecast/internal/standings"
	"github.com/iwvelando/standings-forecast/pkg/constants"
	"go.uber.org/zap"
)

// Source yields the seed rows of the points table.
type Source interface {
	Load(ctx context.Context) ([]standings.Row, error)
	Close() error
}

// Seeder is implemented by sources that can be written to.
type Seeder interface {
	Seed(ctx context.Context, rows []standings.Row) error
}

var (
	_ Source = (*File)(nil)
	_ Source = (*Postgres)(nil)
	_ Source = (*Redis)(nil)
	_ Seeder = (*Postgres)(nil)
	_ Seeder = (*Redis)(nil)
)

// New opens the source selected by cfg.Source.
func New(cfg config.StandingsConfig, logger *zap.Logger) (Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Source {
	case constants.SourceFile, "":
		return NewFile(cfg.Path, logger), nil
	case constants.SourcePostgres:
		return NewPostgres(cfg.Postgres.DSN, logger)
	case constants.SourceRedis:
		return NewRedis(cfg.Redis, logger), nil
	default:
		return nil, fmt.Errorf("unknown standings source %q", cfg.Source)
	}
}

// LoadTable loads rows from src and builds the validated table.
func LoadTable(ctx context.Context, src Source) (*standings.Table, error) {
	rows, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	table, err := standings.NewTable(rows)
	if err != nil {
		return nil, fmt.Errorf("invalid standings data: %w", err)
	}
	return table, nil
}
