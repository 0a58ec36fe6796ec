package main

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/iwvelando/standings-forecast/internal/config"
	"github.com/iwvelando/standings-forecast/internal/source"
	"github.com/iwvelando/standings-forecast/internal/standings"
	"github.com/iwvelando/standings-forecast/pkg/testutil"
)

func TestSeedStoreRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	target := source.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "ipl", nil)
	defer target.Close()

	require.NoError(t, seedStore(context.Background(), zaptest.NewLogger(t), target, testutil.PointsTable()))

	rows, err := target.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testutil.PointsTable(), rows)
}

func TestSeedStoreRejectsFileSource(t *testing.T) {
	target := source.NewFile("unused.json", nil)

	err := seedStore(context.Background(), zaptest.NewLogger(t), target, testutil.PointsTable())
	assert.ErrorContains(t, err, "cannot be seeded")
}

func TestSeedStoreRejectsInvalidRows(t *testing.T) {
	rows := testutil.PointsTable()
	rows = append(rows, standings.Row{Team: testutil.RajasthanRoyals, For: "1/1", Against: "1/1"})

	err := seedStore(context.Background(), zaptest.NewLogger(t), source.NewFile("unused.json", nil), rows)
	assert.ErrorContains(t, err, "refusing to seed")
}

func TestRunSeedFromFile(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := config.StandingsConfig{
		Source: "redis",
		Path:   "../../data/points_table.json",
		Redis:  config.RedisConfig{Addr: mr.Addr(), Prefix: "standings"},
	}
	require.NoError(t, runSeed(context.Background(), zaptest.NewLogger(t), cfg))

	names, err := mr.List("standings:teams")
	require.NoError(t, err)
	assert.Equal(t, []string{
		testutil.ChennaiSuperKings,
		testutil.RoyalChallengersBangalore,
		testutil.DelhiCapitals,
		testutil.RajasthanRoyals,
		testutil.MumbaiIndians,
	}, names)
}
