package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	_ "modernc.org/sqlite"
)

type sqliteTokenStore struct {
	db *sql.DB
}

var _ TokenStore = (*sqliteTokenStore)(nil)

// OpenSQLiteTokenStore opens (or creates) the SQLite file at path and returns a
// store on it. Use "file::memory:?cache=shared" for a throwaway database.
func OpenSQLiteTokenStore(ctx context.Context, path string) (TokenStore, *sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open token database: %w", err)
	}
	store, err := NewSQLiteTokenStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, db, nil
}

// NewSQLiteTokenStore creates the oauth_tokens table on db if needed.
func NewSQLiteTokenStore(ctx context.Context, db *sql.DB) (TokenStore, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS oauth_tokens (
			key          TEXT PRIMARY KEY,
			access_token TEXT NOT NULL,
			token_type   TEXT NOT NULL,
			expires_at   INTEGER NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_tokens table: %w", err)
	}
	return &sqliteTokenStore{db: db}, nil
}

func (s *sqliteTokenStore) Load(ctx context.Context, key string) (*oauth2.Token, bool, error) {
	var (
		tok       oauth2.Token
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT access_token, token_type, expires_at FROM oauth_tokens WHERE key = ?`, key,
	).Scan(&tok.AccessToken, &tok.TokenType, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load token: %w", err)
	}
	tok.Expiry = time.Unix(0, expiresAt)
	return &tok, true, nil
}

func (s *sqliteTokenStore) Save(ctx context.Context, key string, tok *oauth2.Token) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO oauth_tokens (key, access_token, token_type, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			access_token = excluded.access_token,
			token_type   = excluded.token_type,
			expires_at   = excluded.expires_at
	`, key, tok.AccessToken, tok.TokenType, tok.Expiry.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (s *sqliteTokenStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM oauth_tokens WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
