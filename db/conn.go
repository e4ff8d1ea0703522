// Package db contains things related to the database connection
package db

import (
	"elivtory/inventory-api/config"
	"elivtory/inventory-api/internal/model"
	"elivtory/inventory-api/pkg/util"
	"errors"
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func New(c config.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch c.Driver {
	case "postgres":
		dialector = postgres.Open(c.DSN)
	case "sqlite":
		// If running in a container don't allow the sqlite file to be created.
		// The host should instead mount it using volumes
		if util.IsRunningInContainer() && !strings.HasPrefix(c.DSN, "file:") {
			if _, err := os.Stat(c.DSN); errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to /app/%s", c.DSN)
			}
		}

		dialector = sqlite.Open(c.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database, %w", c.Driver, err)
	}

	err = db.AutoMigrate(model.User{}, model.ResetToken{}, model.Product{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
