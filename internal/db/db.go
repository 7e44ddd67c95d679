// Package db loads generated SQL into a MySQL-compatible server.
package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// DB wraps a sql.DB handle.
type DB struct {
	*sql.DB
}

// Open connects to the server using a go-sql-driver DSN.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(time.Hour)
	return &DB{DB: conn}, nil
}

// Apply executes the statements in order, stopping at the first error.
func (d *DB) Apply(ctx context.Context, statements []string) error {
	for _, stmt := range statements {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
