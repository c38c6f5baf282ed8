package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/config"
	applog "github.com/Rogue-Bear-Innovations/emojimap-back/internal/logger"
)

var Module = fx.Options(
	fx.Provide(NewGormClient),
	fx.Invoke(registerClose),
)

// NewGormClient opens the database and brings the schema up to date.
func NewGormClient(cfg *config.Config, l *zap.SugaredLogger) (*gorm.DB, error) {
	db, err := Open(cfg, l)
	if err != nil {
		return nil, err
	}

	if err := NewMigrator(db).Migrate(context.Background()); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}

	return db, nil
}

// Open connects to the configured database without touching the schema.
func Open(cfg *config.Config, l *zap.SugaredLogger) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}

	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		Logger: applog.NewGormLogger(l, level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if cfg.DBDriver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "get sql db")
		}
		// sqlite only supports a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	if err := SetupJoinTables(db); err != nil {
		return nil, errors.Wrap(err, "setup join tables")
	}

	return db, nil
}

func dialector(cfg *config.Config) gorm.Dialector {
	if cfg.DBDriver == config.DriverSQLite {
		return sqlite.Open(SQLiteDSN(cfg.SQLitePath))
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
	return postgres.Open(dsn)
}

// SQLiteDSN turns on foreign keys and a busy timeout for a sqlite path.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func registerClose(lc fx.Lifecycle, db *gorm.DB, l *zap.SugaredLogger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			l.Info("Closing database connection.")
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}
