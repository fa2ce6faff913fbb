// Package pgload loads generated levels straight into a PostGIS
// database. It executes the same statements the dump writer files, so
// a direct load and a replayed dump produce identical tables.
package pgload

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"minesynth.ai/internal/persistence/dump"
	"minesynth.ai/internal/sim/mine"
)

type Loader struct {
	db *gorm.DB
}

func Open(dsn string) (*Loader, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgis: %w", err)
	}
	return &Loader{db: db}, nil
}

func (l *Loader) Close() error {
	if l == nil {
		return nil
	}
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadLevel runs the level's table statements in one transaction:
// either the whole level lands or none of it does.
func (l *Loader) LoadLevel(schema string, lv *mine.Level) error {
	if l == nil {
		return nil
	}
	return l.db.Transaction(func(tx *gorm.DB) error {
		for _, st := range dump.Statements(schema, lv) {
			for _, ddl := range st.Creates {
				if err := tx.Exec(ddl).Error; err != nil {
					return fmt.Errorf("%s: %w", st.Table, err)
				}
			}
			if st.Insert == "" {
				continue
			}
			if err := tx.Exec(st.Insert).Error; err != nil {
				return fmt.Errorf("%s: %w", st.Table, err)
			}
		}
		return nil
	})
}
