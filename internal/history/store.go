// Package history records served predictions in ClickHouse so product
// reports can be generated without scraping server logs. The store is
// optional: a nil *Store is safe to call and does nothing.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"

	"lankacast/pkg/api"
)

// Record kinds.
const (
	KindPredict  = "predict"
	KindForecast = "forecast"
)

// Record is one served prediction or forecast.
type Record struct {
	ID         uuid.UUID
	Kind       string
	Subject    string // route number or district
	Request    string // raw request JSON
	Predicted  string // class label or price string
	Confidence float64
	CreatedAt  time.Time
}

// Config holds ClickHouse connection configuration.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Debug    bool
}

// DefaultConfig returns default development configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     9000,
		Database: "lankacast",
		Username: "default",
		Password: "",
		Debug:    false,
	}
}

// Store writes and reads prediction history.
type Store struct {
	conn clickhouse.Conn
	cfg  *Config
}

// NewStore connects to ClickHouse.
func NewStore(cfg *Config) (*Store, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: cfg.Debug,
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	return &Store{conn: conn, cfg: cfg}, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.conn.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.conn.Close()
}

// Record inserts one history row. New IDs and timestamps are filled in when
// missing.
func (s *Store) Record(ctx context.Context, rec *Record) error {
	if s == nil {
		return nil
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO prediction_history (
			id, kind, subject, request, predicted, confidence, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	return s.conn.Exec(ctx, query,
		rec.ID, rec.Kind, rec.Subject, rec.Request,
		rec.Predicted, rec.Confidence, rec.CreatedAt,
	)
}

// Recent lists the newest history rows, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]api.HistoryEntry, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, kind, subject, predicted, confidence, created_at
		FROM prediction_history
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := s.conn.Query(ctx, query, limit)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []api.HistoryEntry
	for rows.Next() {
		var (
			id        uuid.UUID
			entry     api.HistoryEntry
			createdAt time.Time
		)
		if err := rows.Scan(&id, &entry.Kind, &entry.Subject, &entry.Predicted, &entry.Confidence, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entry.ID = id.String()
		entry.CreatedAt = createdAt.Format(time.RFC3339)
		entries = append(entries, entry)
	}
	return entries, nil
}
