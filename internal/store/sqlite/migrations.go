package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migration is one versioned schema change with its inverse.
type migration struct {
	version int
	name    string
	up      string
	down    string
}

type migrator struct {
	conn  *sql.DB
	files fs.FS
}

// newMigrator reads NNNN_name.up.sql / NNNN_name.down.sql pairs from the
// migrations directory of files.
func newMigrator(conn *sql.DB, files fs.FS) *migrator {
	return &migrator{conn: conn, files: files}
}

// load parses every migration file. Versions must be unique and every up
// file needs a matching down file.
func (m *migrator) load() ([]migration, error) {
	entries, err := fs.ReadDir(m.files, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := map[int]*migration{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		version, name, up, err := parseMigrationName(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("migration %q: %w", entry.Name(), err)
		}

		body, err := fs.ReadFile(m.files, "migrations/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		mig, ok := byVersion[version]
		if !ok {
			mig = &migration{version: version, name: name}
			byVersion[version] = mig
		}
		if mig.name != name {
			return nil, fmt.Errorf("version %04d has names %q and %q", version, mig.name, name)
		}

		target := &mig.down
		if up {
			target = &mig.up
		}
		if *target != "" {
			return nil, fmt.Errorf("version %04d: duplicate %s file", version, entry.Name())
		}
		*target = string(body)
	}

	out := make([]migration, 0, len(byVersion))
	for _, mig := range byVersion {
		if mig.up == "" || mig.down == "" {
			return nil, fmt.Errorf("version %04d (%s) needs both up and down files", mig.version, mig.name)
		}
		out = append(out, *mig)
	}

	slices.SortFunc(out, func(a, b migration) int { return a.version - b.version })
	return out, nil
}

// parseMigrationName splits "0001_name.up.sql" into its parts.
func parseMigrationName(file string) (version int, name string, up bool, err error) {
	var base string
	switch {
	case strings.HasSuffix(file, ".up.sql"):
		base, up = strings.TrimSuffix(file, ".up.sql"), true
	case strings.HasSuffix(file, ".down.sql"):
		base = strings.TrimSuffix(file, ".down.sql")
	default:
		return 0, "", false, fmt.Errorf("want .up.sql or .down.sql suffix")
	}

	num, name, ok := strings.Cut(base, "_")
	if !ok || name == "" {
		return 0, "", false, fmt.Errorf("want NNNN_name.{up,down}.sql")
	}

	version, err = strconv.Atoi(num)
	if err != nil || version <= 0 {
		return 0, "", false, fmt.Errorf("version %q must be a positive integer", num)
	}
	return version, name, up, nil
}

// up applies every pending migration in version order.
func (m *migrator) up(ctx context.Context) error {
	migrations, err := m.load()
	if err != nil {
		return err
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}

	for _, mig := range migrations {
		if applied[mig.version] {
			continue
		}

		log.Info().Int("version", mig.version).Str("name", mig.name).Msg("applying migration")
		err := m.exec(ctx, mig.up, "INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			mig.version, mig.name, time.Now().UnixNano())
		if err != nil {
			return fmt.Errorf("apply %04d (%s): %w", mig.version, mig.name, err)
		}
	}
	return nil
}

// down reverts the last n applied migrations, newest first.
func (m *migrator) down(ctx context.Context, n int) error {
	if n <= 0 {
		return fmt.Errorf("n must be positive, got %d", n)
	}

	migrations, err := m.load()
	if err != nil {
		return err
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}

	var revert []migration
	for _, mig := range slices.Backward(migrations) {
		if applied[mig.version] {
			revert = append(revert, mig)
		}
	}
	if n > len(revert) {
		return fmt.Errorf("asked to revert %d migrations but %d are applied", n, len(revert))
	}

	for _, mig := range revert[:n] {
		log.Info().Int("version", mig.version).Str("name", mig.name).Msg("reverting migration")
		if err := m.exec(ctx, mig.down, "DELETE FROM schema_migrations WHERE version = ?", mig.version); err != nil {
			return fmt.Errorf("revert %04d (%s): %w", mig.version, mig.name, err)
		}
	}
	return nil
}

// applied returns the recorded versions, creating the tracking table on
// first use.
func (m *migrator) applied(ctx context.Context) (map[int]bool, error) {
	_, err := m.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	rows, err := m.conn.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	applied := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// exec runs a migration body and its bookkeeping statement in one
// transaction.
func (m *migrator) exec(ctx context.Context, body, record string, args ...any) error {
	tx, err := m.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}
	return tx.Commit()
}
