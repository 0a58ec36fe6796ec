package source

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/iwvelando/standings-forecast/internal/config"
	"github.com/iwvelando/standings-forecast/internal/standings"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis reads the points table from one hash per team plus an ordered list of
// team names under {prefix}:teams.
type Redis struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedis creates a client for cfg.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return NewRedisFromClient(client, cfg.Prefix, logger)
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, prefix string, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{client: client, prefix: prefix, logger: logger}
}

func (r *Redis) teamsKey() string {
	return fmt.Sprintf("%s:teams", r.prefix)
}

func (r *Redis) teamKey(team string) string {
	return fmt.Sprintf("%s:team:%s", r.prefix, team)
}

// Load implements Source.
func (r *Redis) Load(ctx context.Context) ([]standings.Row, error) {
	names, err := r.client.LRange(ctx, r.teamsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.teamsKey(), err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no teams stored under %s", r.teamsKey())
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(names))
	for i, name := range names {
		cmds[i] = pipe.HGetAll(ctx, r.teamKey(name))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to read team hashes: %w", err)
	}

	rows := make([]standings.Row, 0, len(names))
	for i, name := range names {
		row, err := decodeHash(name, cmds[i].Val())
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	r.logger.Debug("loaded standings",
		zap.String("op", "source.Redis.Load"),
		zap.String("key", r.teamsKey()),
		zap.Int("teams", len(rows)),
	)
	return rows, nil
}

// Seed replaces the stored table with rows atomically.
func (r *Redis) Seed(ctx context.Context, rows []standings.Row) error {
	previous, err := r.client.LRange(ctx, r.teamsKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", r.teamsKey(), err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.teamsKey())
		for _, name := range previous {
			pipe.Del(ctx, r.teamKey(name))
		}
		for _, row := range rows {
			pipe.HSet(ctx, r.teamKey(row.Team), map[string]interface{}{
				"matches": row.Matches,
				"won":     row.Won,
				"lost":    row.Lost,
				"nrr":     row.NRR,
				"for":     row.For,
				"against": row.Against,
				"points":  row.Points,
			})
			pipe.RPush(ctx, r.teamsKey(), row.Team)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed redis standings: %w", err)
	}

	r.logger.Info("seeded standings",
		zap.String("op", "source.Redis.Seed"),
		zap.String("key", r.teamsKey()),
		zap.Int("teams", len(rows)),
	)
	return nil
}

// Close implements Source.
func (r *Redis) Close() error {
	return r.client.Close()
}

func decodeHash(team string, fields map[string]string) (standings.Row, error) {
	if len(fields) == 0 {
		return standings.Row{}, fmt.Errorf("team %q is listed but has no stored record", team)
	}

	row := standings.Row{Team: team, For: fields["for"], Against: fields["against"]}
	ints := []struct {
		field string
		dest  *int
	}{
		{"matches", &row.Matches},
		{"won", &row.Won},
		{"lost", &row.Lost},
		{"points", &row.Points},
	}
	for _, f := range ints {
		n, err := strconv.Atoi(fields[f.field])
		if err != nil {
			return standings.Row{}, fmt.Errorf("team %q field %s: %w", team, f.field, err)
		}
		*f.dest = n
	}

	nrr, err := strconv.ParseFloat(fields["nrr"], 64)
	if err != nil {
		return standings.Row{}, fmt.Errorf("team %q field nrr: %w", team, err)
	}
	row.NRR = nrr
	return row, nil
}
