package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// openPostgres mirrors stock/store_postgres.go's open-then-ping shape.
func openPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
