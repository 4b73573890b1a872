package devserver

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenDatabase connects to postgres when dsn is a postgres URL and to
// sqlite otherwise, then migrates the schema.
func OpenDatabase(dsn string, log *zap.Logger, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if isPostgres(dsn) {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	gormLog := gormlogger.Default.LogMode(gormlogger.Silent)
	if debug {
		gormLog = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLog,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if db.Dialector.Name() == "sqlite" {
		// sqlite serialises writers; one connection keeps transactions
		// from failing with SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	log.Info("Database ready", zap.String("driver", db.Dialector.Name()))
	return db, nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Media{},
		&List{},
		&ListItem{},
		&Follow{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_list_items_list_position ON list_items (list_id, position)").Error; err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// closeDatabase closes the underlying connection pool
func closeDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
