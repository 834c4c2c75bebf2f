package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/armandsalle/poll/internal/config"
)

// Open connects the identity store and verifies it with a short ping.
// parseTime maps the DATETIME columns (created_at, consumed_at and
// friends) onto time.Time at scan; loc=UTC keeps those values
// comparable with the UTC timestamps the services work in.
func Open(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	// Auth traffic is short point reads and single-row writes, so a
	// small pool with a modest idle ceiling covers it without pinning
	// connections on quiet deployments.
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// dsn assembles the driver connection string from the DB fields of cfg.
// An empty password drops the credential separator entirely, which the
// driver expects for passwordless local setups.
func dsn(cfg config.Config) string {
	cred := cfg.DBUser
	if cfg.DBPass != "" {
		cred += ":" + cfg.DBPass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		cred, cfg.DBHost, cfg.DBPort, cfg.DBName)
}
