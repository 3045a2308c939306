package redline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redline/internal/core/config"
	"github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/store/jsonfile"
	"github.com/colonyops/redline/internal/store/sqlite"
)

func TestOpenStore(t *testing.T) {
	tests := []struct {
		name    string
		backend config.StoreBackend
		want    review.Store
		wantErr bool
	}{
		{name: "json", backend: config.StoreJSON, want: &jsonfile.DecisionStore{}},
		{name: "sqlite", backend: config.StoreSQLite, want: &sqlite.SessionStore{}},
		{name: "unknown", backend: "postgres", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := config.DefaultConfig()
			cfg.Store = tt.backend
			cfg.DecisionsDir = filepath.Join(dir, "decisions")
			cfg.DatabasePath = filepath.Join(dir, "redline.db")

			store, closeStore, err := OpenStore(context.Background(), &cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer func() { require.NoError(t, closeStore()) }()

			assert.IsType(t, tt.want, store)

			ctx := context.Background()
			require.NoError(t, store.SaveSession(ctx, review.Session{DocumentID: "doc-1"}))
			_, err = store.GetSession(ctx, "doc-1")
			require.NoError(t, err)
		})
	}
}
