package db

import (
	"context"
	"fmt"
	"io/fs"

	"gorm.io/gorm"
)

const menuSeedFile = "migrations/002_seed_menu.sql"

// SeedMenu re-inserts any missing weekday rows of the default menu. Existing
// rows are left untouched. It returns the number of rows inserted.
func SeedMenu(ctx context.Context, db *gorm.DB) (int64, error) {
	contents, err := fs.ReadFile(migrationFiles, menuSeedFile)
	if err != nil {
		return 0, fmt.Errorf("read menu seed: %w", err)
	}

	result := db.WithContext(ctx).Exec(string(contents))
	if result.Error != nil {
		return 0, fmt.Errorf("seed menu: %w", result.Error)
	}
	return result.RowsAffected, nil
}
