package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/letieu/ideadb/config"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

const defaultPageSize = 10

// DB is the catalog's single handle on the relational store. All listing,
// lookup and vote operations hang off it.
type DB struct {
	conn     *sql.DB
	pageSize int
	defaults SortDefaults
}

// Options tunes listing behaviour.
type Options struct {
	PageSize    int
	DefaultSort SortDefaults
}

func DefaultOptions() Options {
	return Options{
		PageSize: defaultPageSize,
		DefaultSort: SortDefaults{
			Problems: SortScoreDesc,
			Ideas:    SortScoreDesc,
			Products: SortNewest,
		},
	}
}

// New wraps an already opened connection pool.
func New(conn *sql.DB, opts Options) *DB {
	def := DefaultOptions()
	if opts.PageSize <= 0 {
		opts.PageSize = def.PageSize
	}
	if !opts.DefaultSort.Problems.Valid() {
		opts.DefaultSort.Problems = def.DefaultSort.Problems
	}
	if !opts.DefaultSort.Ideas.Valid() {
		opts.DefaultSort.Ideas = def.DefaultSort.Ideas
	}
	if !opts.DefaultSort.Products.Valid() {
		opts.DefaultSort.Products = def.DefaultSort.Products
	}
	return &DB{conn: conn, pageSize: opts.PageSize, defaults: opts.DefaultSort}
}

// Open opens and pings a store through the named database/sql driver.
func Open(ctx context.Context, driver, dsn string, opts Options) (*DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return New(conn, opts), nil
}

// NewDB connects to Turso (libsql) or a local SQLite file depending on
// database.driver.
func NewDB(ctx context.Context, cfg *config.Config) (*DB, error) {
	var dsn string
	switch cfg.Database.Driver {
	case "sqlite3":
		dsn = SQLiteDSN(cfg.Database.Path)
	default:
		dsn = cfg.Database.Url
		if cfg.Database.Token != "" {
			dsn = fmt.Sprintf("%s?authToken=%s", cfg.Database.Url, cfg.Database.Token)
		}
	}

	db, err := Open(ctx, cfg.Database.Driver, dsn, Options{
		PageSize: cfg.Catalog.PageSize,
		DefaultSort: SortDefaults{
			Problems: Sort(cfg.Catalog.DefaultSort.Problems),
			Ideas:    Sort(cfg.Catalog.DefaultSort.Ideas),
			Products: Sort(cfg.Catalog.DefaultSort.Products),
		},
	})
	if err != nil {
		return nil, err
	}

	if cfg.Database.MaxOpenConns > 0 {
		db.conn.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}

	return db, nil
}

// SQLiteDSN builds a go-sqlite3 DSN with foreign keys on and a busy timeout,
// so concurrent vote statements wait instead of failing with SQLITE_BUSY.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
}

func (db *DB) PageSize() int {
	return db.pageSize
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) Stats() sql.DBStats {
	return db.conn.Stats()
}

func (db *DB) Close() error {
	return db.conn.Close()
}
