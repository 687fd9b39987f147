package sqlstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot writes a consistent copy of the sqlite database to path.
func (s *Store) Snapshot(ctx context.Context, path string) error {
	if s.dialect != DialectSQLite {
		return fmt.Errorf("snapshot is only supported for sqlite, got %s", s.dialect)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("snapshot target %s already exists", path)
	}
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return fmt.Errorf("vacuum into %s: %w", path, err)
	}
	return nil
}
