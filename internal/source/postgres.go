package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iwvelando/standings-forecast/internal/standings"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	createTableQuery = `CREATE TABLE IF NOT EXISTS points_table (
		team         TEXT PRIMARY KEY,
		seed_order   INTEGER NOT NULL,
		matches      INTEGER NOT NULL,
		won          INTEGER NOT NULL,
		lost         INTEGER NOT NULL,
		nrr          DOUBLE PRECISION NOT NULL,
		runs_for     TEXT NOT NULL,
		runs_against TEXT NOT NULL,
		points       INTEGER NOT NULL
	)`

	selectRowsQuery = `SELECT team, matches, won, lost, nrr, runs_for, runs_against, points
		FROM points_table ORDER BY seed_order`

	deleteRowsQuery = `DELETE FROM points_table`

	insertRowQuery = `INSERT INTO points_table
		(team, seed_order, matches, won, lost, nrr, runs_for, runs_against, points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
)

// Postgres reads the points table from a postgres table.
type Postgres struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgres opens a connection pool for dsn.
func NewPostgres(dsn string, logger *zap.Logger) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	return NewPostgresFromDB(db, logger), nil
}

// NewPostgresFromDB wraps an existing handle.
func NewPostgresFromDB(db *sql.DB, logger *zap.Logger) *Postgres {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Postgres{db: db, logger: logger}
}

// Load implements Source. Rows come back in seed order.
func (p *Postgres) Load(ctx context.Context) ([]standings.Row, error) {
	rows, err := p.db.QueryContext(ctx, selectRowsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query points table: %w", err)
	}
	defer rows.Close()

	var result []standings.Row
	for rows.Next() {
		var r standings.Row
		if err := rows.Scan(&r.Team, &r.Matches, &r.Won, &r.Lost, &r.NRR, &r.For, &r.Against, &r.Points); err != nil {
			return nil, fmt.Errorf("failed to scan points table row: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read points table: %w", err)
	}

	p.logger.Debug("loaded standings",
		zap.String("op", "source.Postgres.Load"),
		zap.Int("teams", len(result)),
	)
	return result, nil
}

// Migrate creates the points table if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("failed to create points table: %w", err)
	}
	return nil
}

// Seed replaces the stored table with rows in a single transaction.
func (p *Postgres) Seed(ctx context.Context, rows []standings.Row) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, deleteRowsQuery); err != nil {
		return fmt.Errorf("failed to clear points table: %w", err)
	}
	for i, r := range rows {
		if _, err := tx.ExecContext(ctx, insertRowQuery,
			r.Team, i, r.Matches, r.Won, r.Lost, r.NRR, r.For, r.Against, r.Points); err != nil {
			return fmt.Errorf("failed to insert %s: %w", r.Team, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	p.logger.Info("seeded standings",
		zap.String("op", "source.Postgres.Seed"),
		zap.Int("teams", len(rows)),
	)
	return nil
}

// Close implements Source.
func (p *Postgres) Close() error {
	return p.db.Close()
}
