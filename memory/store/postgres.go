package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	cfg "github.com/sweetpotato0/deepresearch/config"
	"github.com/sweetpotato0/deepresearch/memory"
)

// PostgresStore implements memory.Store using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DefaultPostgresConfig returns default PostgreSQL configuration
func DefaultPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		DBName:   "deepresearch",
		SSLMode:  "disable",
	}
}

// NewPostgresStore creates a new PostgreSQL-based store
func NewPostgresStore(config *PostgresConfig) (*PostgresStore, error) {
	if config == nil {
		config = DefaultPostgresConfig()
	}

	if err := cfg.ValidatePostgresConfig(config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode); err != nil {
		return nil, fmt.Errorf("invalid PostgreSQL configuration: %w", err)
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	store := &PostgresStore{db: db}

	if err := store.createTable(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return store, nil
}

// createTable creates the thread_entries table if it doesn't exist
func (s *PostgresStore) createTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS thread_entries (
		id VARCHAR(255) PRIMARY KEY,
		thread_id VARCHAR(255) NOT NULL,
		kind VARCHAR(64) NOT NULL,
		content TEXT NOT NULL,
		metadata JSONB,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_thread_entries_thread ON thread_entries(thread_id, created_at);
	`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Append stores an entry in PostgreSQL
func (s *PostgresStore) Append(ctx context.Context, entry *memory.Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if entry.ThreadID == "" {
		return fmt.Errorf("entry thread ID cannot be empty")
	}

	if entry.ID == "" {
		entry.ID = memory.GenerateEntryID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var metadataJSON []byte
	if len(entry.Metadata) > 0 {
		var err error
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
	} else {
		metadataJSON = []byte("{}")
	}

	query := `
	INSERT INTO thread_entries (id, thread_id, kind, content, metadata, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.ThreadID,
		entry.Kind,
		entry.Content,
		string(metadataJSON),
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to add entry to PostgreSQL: %w", err)
	}

	return nil
}

// History returns a thread's entries in insertion order, newest last
func (s *PostgresStore) History(ctx context.Context, threadID string, limit int) ([]*memory.Entry, error) {
	var rows *sql.Rows
	var err error

	if limit > 0 {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, thread_id, kind, content, metadata, created_at
			 FROM (
				SELECT id, thread_id, kind, content, metadata, created_at
				FROM thread_entries
				WHERE thread_id = $1
				ORDER BY created_at DESC
				LIMIT $2
			 ) recent
			 ORDER BY created_at ASC`,
			threadID, limit)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, thread_id, kind, content, metadata, created_at
			 FROM thread_entries
			 WHERE thread_id = $1
			 ORDER BY created_at ASC`,
			threadID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read thread history: %w", err)
	}
	defer rows.Close()

	entries := make([]*memory.Entry, 0)
	for rows.Next() {
		entry := &memory.Entry{}
		var metadataJSON string

		err := rows.Scan(&entry.ID, &entry.ThreadID, &entry.Kind, &entry.Content, &metadataJSON, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}

		entry.Metadata = make(map[string]interface{})
		if metadataJSON != "" && metadataJSON != "{}" {
			if err := json.Unmarshal([]byte(metadataJSON), &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}

// Clear removes a thread's entries from PostgreSQL
func (s *PostgresStore) Clear(ctx context.Context, threadID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM thread_entries WHERE thread_id = $1", threadID)
	if err != nil {
		return fmt.Errorf("failed to clear thread entries: %w", err)
	}
	return nil
}

// Count returns the number of entries recorded for a thread
func (s *PostgresStore) Count(ctx context.Context, threadID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM thread_entries WHERE thread_id = $1", threadID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count thread entries: %w", err)
	}
	return count, nil
}

// Close closes the PostgreSQL connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ping checks if PostgreSQL connection is alive
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
