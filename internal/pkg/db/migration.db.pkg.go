package database

import (
	"fmt"
	"uploadkit-go/internal/service/media/model"
)

func (db *Database) RunMigrations() error {
	models := []interface{}{
		&model.Media{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}
