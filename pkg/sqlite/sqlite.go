package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type txContextKey string

const txKey txContextKey = "trx"

// Config locates the database file inside the application's private
// data directory.
type Config struct {
	Dir  string `env:"DIR"`
	File string `env:"FILE"`
}

// DB wraps a single long-lived handle to the embedded database. The
// desktop app has exactly one writer process, so the pool is capped at
// one open connection and the storage engine serializes everything.
type DB struct {
	db *gorm.DB
}

func Open(cfg Config, withDebug bool) (*DB, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", cfg.Dir, err)
	}

	path := filepath.Join(cfg.Dir, cfg.File)
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if withDebug {
		db = db.Debug()
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return &DB{db: db}, nil
}

// OpenMemory opens a private in-memory database. Used by tests; the
// single-connection cap keeps the database alive for the handle's
// lifetime.
func OpenMemory() (*DB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return &DB{db: db}, nil
}

// WithinTransaction runs fn inside a single database transaction. The
// transaction handle travels in the context, so repository calls made
// through Read/Write inside fn join the same unit of work. Any error
// returned by fn rolls the whole unit back.
func (d *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctx = context.WithValue(ctx, txKey, tx)
		return fn(ctx)
	})
}

// Ping verifies the handle can still reach the database file.
func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *DB) Write(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return d.db.WithContext(ctx)
}

func (d *DB) Read(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return d.db.WithContext(ctx)
}
