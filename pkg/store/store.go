// Package store executes parameterized aggregation queries against the
// local SQLite compensation dataset.
package store

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/watershed-hr/comp-engine/pkg/apperrors"
	"github.com/watershed-hr/comp-engine/pkg/config"
	"github.com/watershed-hr/comp-engine/pkg/retry"
)

// Store wraps the compensation database.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger

	rowLimit       int
	excludedLevels []string
}

// Open connects to the SQLite file at cfg.Path. The file must already
// exist; the dataset is produced externally.
func Open(ctx context.Context, dbCfg *config.DatabaseConfig, queryCfg *config.QueryConfig, logger *zap.Logger) (*Store, error) {
	if _, err := os.Stat(dbCfg.Path); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNoDatabase, dbCfg.Path)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", dbCfg.Path, dbCfg.BusyTimeoutMS)

	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*sqlx.DB, error) {
		d, err := sqlx.Open("sqlite", dsn)
		if err != nil {
			return nil, err
		}
		if err := d.PingContext(ctx); err != nil {
			d.Close()
			return nil, err
		}
		return d, nil
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbCfg.Path, err)
	}

	// The CLI is single-threaded; one connection avoids writer contention
	// entirely.
	db.SetMaxOpenConns(1)

	logger.Info("compensation store opened", zap.String("path", dbCfg.Path))

	return &Store{
		db:             db,
		logger:         logger.Named("store"),
		rowLimit:       queryCfg.RowLimit,
		excludedLevels: queryCfg.ExcludedLevelPatterns,
	}, nil
}

// NewWithDB wraps an existing connection. Used by tests with in-memory
// databases.
func NewWithDB(db *sqlx.DB, rowLimit int, excludedLevels []string, logger *zap.Logger) *Store {
	return &Store{
		db:             db,
		logger:         logger.Named("store"),
		rowLimit:       rowLimit,
		excludedLevels: excludedLevels,
	}
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}
