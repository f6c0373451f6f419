// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Config holds PostgreSQL connection settings for reference data sources.
type Config struct {
	Host               string
	Port               int
	Username           string
	Password           string
	Database           string
	SSLMode            string
	MaxOpenConnections int
	MaxIdleConnections int
	MaxLifetime        int
	ConnectTimeout     int
}

// Client wraps sqlx.DB and provides connection pooling and health checks
type Client struct {
	db *sqlx.DB
}

// NewClient creates a new PostgreSQL client wrapper
func NewClient(ctx context.Context, config *Config) (*Client, error) {
	connStr := buildConnectionString(config)

	db, err := sqlx.ConnectContext(ctx, "postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Configure connection pool
	if config.MaxOpenConnections > 0 {
		db.SetMaxOpenConns(config.MaxOpenConnections)
	}
	if config.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(config.MaxIdleConnections)
	}
	if config.MaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(config.MaxLifetime) * time.Second)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	return &Client{db: db}, nil
}

// buildConnectionString builds PostgreSQL connection string from config
func buildConnectionString(config *Config) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("host=%s", config.Host))
	parts = append(parts, fmt.Sprintf("port=%d", config.Port))
	parts = append(parts, fmt.Sprintf("dbname=%s", config.Database))

	if config.Username != "" {
		parts = append(parts, fmt.Sprintf("user=%s", config.Username))
	}
	if config.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", config.Password))
	}

	sslMode := config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	parts = append(parts, fmt.Sprintf("sslmode=%s", sslMode))

	if config.ConnectTimeout > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", config.ConnectTimeout))
	}

	return strings.Join(parts, " ")
}

// DB returns the underlying *sqlx.DB connection
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// Ping verifies the connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the connection pool
func (c *Client) Close() error {
	return c.db.Close()
}
