package source

import (
	"context"
	"fmt"
	"os"

	"github.com/iwvelando/standings-forecast/internal/standings"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// File reads the points table from a YAML or JSON document holding a list of rows.
type File struct {
	path   string
	logger *zap.Logger
}

// NewFile returns a source reading path.
func NewFile(path string, logger *zap.Logger) *File {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &File{path: path, logger: logger}
}

// Load implements Source.
func (f *File) Load(ctx context.Context) ([]standings.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read standings file: %w", err)
	}

	// JSON is a subset of YAML, so one decoder serves both.
	var rows []standings.Row
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse standings file %s: %w", f.path, err)
	}

	f.logger.Debug("loaded standings",
		zap.String("op", "source.File.Load"),
		zap.String("path", f.path),
		zap.Int("teams", len(rows)),
	)
	return rows, nil
}

// Close implements Source.
func (f *File) Close() error { return nil }
