package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS transcript_cache (
	url          TEXT PRIMARY KEY,
	service      TEXT NOT NULL,
	resource_key TEXT,
	content      TEXT,
	source       TEXT NOT NULL,
	metadata     TEXT,
	stored_at    TIMESTAMP NOT NULL,
	expires_at   TIMESTAMP NOT NULL
);`

// SQLiteStore persists transcript records in a local SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	return NewSQLiteStoreWithDB(db)
}

// NewSQLiteStoreWithDB wraps an existing connection, creating the schema if
// it does not exist yet.
func NewSQLiteStoreWithDB(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create transcript_cache table: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, url string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT service, resource_key, content, source, metadata, stored_at, expires_at
		 FROM transcript_cache WHERE url = ?`, url)

	var (
		record      Record
		resourceKey sql.NullString
		content     sql.NullString
		metadata    sql.NullString
	)
	err := row.Scan(&record.Service, &resourceKey, &content, &record.Source,
		&metadata, &record.StoredAt, &record.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached transcript: %w", err)
	}

	record.ResourceKey = resourceKey.String
	if content.Valid {
		record.Content = &content.String
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &record.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode cached metadata: %w", err)
		}
	}
	record.Expired = s.now().After(record.ExpiresAt)
	return &record, nil
}

func (s *SQLiteStore) Set(ctx context.Context, args SetArgs) error {
	var metadata sql.NullString
	if args.Metadata != nil {
		encoded, err := json.Marshal(args.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode cache metadata: %w", err)
		}
		metadata = sql.NullString{String: string(encoded), Valid: true}
	}

	var content sql.NullString
	if args.Content != nil {
		content = sql.NullString{String: *args.Content, Valid: true}
	}

	now := s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transcript_cache (url, service, resource_key, content, source, metadata, stored_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
			service = excluded.service,
			resource_key = excluded.resource_key,
			content = excluded.content,
			source = excluded.source,
			metadata = excluded.metadata,
			stored_at = excluded.stored_at,
			expires_at = excluded.expires_at`,
		args.URL, args.Service, args.ResourceKey, content, args.Source,
		metadata, now, now.Add(args.TTL))
	if err != nil {
		return fmt.Errorf("failed to write cached transcript: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
