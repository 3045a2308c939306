package redline

import (
	"context"
	"fmt"

	"github.com/colonyops/redline/internal/core/config"
	"github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/store/jsonfile"
	"github.com/colonyops/redline/internal/store/sqlite"
)

// OpenStore returns the decision store selected by cfg.Store. The returned
// close function releases the backend and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config) (review.Store, func() error, error) {
	switch cfg.Store {
	case config.StoreJSON, "":
		return jsonfile.NewDecisionStore(cfg.DecisionsDir), func() error { return nil }, nil
	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open decision database: %w", err)
		}
		return sqlite.NewSessionStore(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store %q", cfg.Store)
	}
}
