// Package db はリレーショナルストア（PostgreSQL / SQLite）への接続とマイグレーションを提供します。
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"leadhub/internal/feature/auth/domain/entity"
	leadadapters "leadhub/internal/feature/leads/adapters"
	"leadhub/internal/platform/config"
)

const retryInterval = 3 * time.Second

// Opener はDSNからgorm.DBを開く関数です。テストで差し替えられます。
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN はPostgreSQL用のkey=value形式DSNを生成します。
func BuildDSN(cfg config.DBConfig) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

// PostgresOpener はPostgreSQLドライバでDBを開きます。
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), gormConfig())
}

// SQLiteOpener はSQLiteドライバでDBを開きます。
// :memory: はコネクションごとに別DBになるため、コネクションを1本に固定します。
func SQLiteOpener(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// ConnectWithRetry は timeout に達するまで retryInterval ごとに接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	return connectWithRetry(dsn, timeout, retryInterval, open)
}

func connectWithRetry(dsn string, timeout, interval time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "interval", interval)
		time.Sleep(interval)
	}
}

// Open は driver に応じてDBへ接続し、必要ならマイグレーションを実行します。
func Open(driver string, cfg config.DBConfig) (*gorm.DB, error) {
	return open(driver, cfg, Migrate)
}

func open(driver string, cfg config.DBConfig, migrate func(*gorm.DB) error) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case config.DriverPostgres:
		db, err = ConnectWithRetry(BuildDSN(cfg), cfg.ConnectTimeout, PostgresOpener)
	case config.DriverSQLite:
		db, err = SQLiteOpener(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported relational driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := migrate(db); err != nil {
			_ = Close(db)
			return nil, err
		}
	}
	slog.Info("DB connection successful", "driver", driver)
	return db, nil
}

// Migrate はusersとleadsのテーブルとインデックスを作成します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entity.User{},
		&leadadapters.LeadModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Close は下層のsql.DBを閉じます。
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
