package db

import (
	"database/sql"
	"fmt"

	"todo_app/internal/config"
	"todo_app/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

const (
	sqliteDriverName = "sqlite"

	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Open connects to the configured store, migrates the schema and returns a gorm handle.
func Open(cfg config.DB) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite, "":
		sqlDB, err := InitDB(cfg.Path)
		if err != nil {
			return nil, err
		}
		dialector = &sqlite.Dialector{DriverName: sqliteDriverName, Conn: sqlDB}
	case DriverMySQL:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("db.dsn is required for driver %q", cfg.Driver)
		}
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open %s via gorm: %w", cfg.Driver, err)
	}
	if err := gdb.AutoMigrate(&models.User{}, &models.TodoItem{}); err != nil {
		_ = Close(gdb)
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return gdb, nil
}

// Close releases the pool behind a gorm handle.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Each request does a single read or write, so no wrapping transaction is needed.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

// InitDB opens/creates a SQLite DB file with the pragmas the service relies on.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is not great with many writers
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}
