package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Migration struct {
	Version     int
	Description string
	Up          func(*gorm.DB) error
	Down        func(*gorm.DB) error
}

type migrationHistory struct {
	ID          uint   `gorm:"primaryKey"`
	Version     int    `gorm:"uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	AppliedAt   int64  `gorm:"autoCreateTime"`
}

type MigrationStatus struct {
	Version     int
	Description string
	Applied     bool
}

type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: allMigrations(),
	}
}

// Migrate applies every migration not yet recorded in the history table, each
// in its own transaction.
func (m *Migrator) Migrate(ctx context.Context) error {
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if applied[migration.Version] {
			continue
		}
		if err := m.run(ctx, migration); err != nil {
			return errors.Wrapf(err, "migration %d (%s)", migration.Version, migration.Description)
		}
	}
	return nil
}

// Rollback reverts the most recently applied migration.
func (m *Migrator) Rollback(ctx context.Context) error {
	var last migrationHistory
	if err := m.db.WithContext(ctx).Order("version DESC").First(&last).Error; err != nil {
		return errors.Wrap(err, "no migrations to rollback")
	}

	for _, migration := range m.migrations {
		if migration.Version != last.Version {
			continue
		}
		return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := migration.Down(tx); err != nil {
				return errors.Wrap(err, "rollback")
			}
			return tx.Delete(&last).Error
		})
	}
	return errors.Errorf("migration %d not found", last.Version)
}

func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(m.migrations))
	for _, migration := range m.migrations {
		statuses = append(statuses, MigrationStatus{
			Version:     migration.Version,
			Description: migration.Description,
			Applied:     applied[migration.Version],
		})
	}
	return statuses, nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&migrationHistory{}); err != nil {
		return nil, errors.Wrap(err, "create migration history table")
	}

	var applied []migrationHistory
	if err := m.db.WithContext(ctx).Find(&applied).Error; err != nil {
		return nil, errors.Wrap(err, "query migration history")
	}

	versions := make(map[int]bool, len(applied))
	for _, a := range applied {
		versions[a.Version] = true
	}
	return versions, nil
}

func (m *Migrator) run(ctx context.Context, migration Migration) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Up(tx); err != nil {
			return err
		}
		return tx.Create(&migrationHistory{
			Version:     migration.Version,
			Description: migration.Description,
		}).Error
	})
}

func allMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Initial schema: users, markers, tags, marker_tags, comments",
			Up: func(db *gorm.DB) error {
				return db.AutoMigrate(Models()...)
			},
			Down: func(db *gorm.DB) error {
				return dropTables(db, &Comment{}, &MarkerTag{}, &Tag{}, &Marker{}, &User{})
			},
		},
	}
}

// dropTables drops one table at a time in the given order, children first.
// sqlite ignores PRAGMA foreign_keys inside a transaction, so every drop must
// leave no table referencing a dropped one.
func dropTables(db *gorm.DB, models ...interface{}) error {
	for _, model := range models {
		if err := db.Migrator().DropTable(model); err != nil {
			return errors.Wrapf(err, "drop %T", model)
		}
	}
	return nil
}
