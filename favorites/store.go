// Package favorites persists the users marked as favorite on SQLite.
//
// Usernames are unique and case-insensitive, matching how the provider
// treats logins. Listing returns the most recently added first.
package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a username is not in the store
var ErrNotFound = errors.New("favorite not found")

// Favorite is a user kept for quick access
type Favorite struct {
	Username  string
	AvatarURL string
	// UserID is zero when the provider id was not known at save time
	UserID  int64
	AddedAt time.Time
}

// Store handles persistence of favorites using SQLite
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
	mu     sync.RWMutex
	now    func() time.Time
}

// Open creates or opens the store at path, creating parent directories
func Open(path string, logger zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps writes serialized without SQLITE_BUSY retries
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db, logger: logger, now: time.Now}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("Favorites store opened")
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS favorites (
			username   TEXT PRIMARY KEY COLLATE NOCASE,
			avatar_url TEXT NOT NULL DEFAULT '',
			user_id    INTEGER,
			added_at   INTEGER NOT NULL
		)
	`)
	return err
}

// Upsert saves f. Saving an existing username refreshes its fields and
// added_at. A zero AddedAt is stamped with the current time.
func (s *Store) Upsert(ctx context.Context, f Favorite) (Favorite, error) {
	f.Username = strings.TrimSpace(f.Username)
	if f.Username == "" {
		return Favorite{}, errors.New("favorite username is required")
	}
	if f.AddedAt.IsZero() {
		f.AddedAt = s.now()
	}

	var userID sql.NullInt64
	if f.UserID != 0 {
		userID = sql.NullInt64{Int64: f.UserID, Valid: true}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (username, avatar_url, user_id, added_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			username   = excluded.username,
			avatar_url = excluded.avatar_url,
			user_id    = COALESCE(excluded.user_id, favorites.user_id),
			added_at   = excluded.added_at
	`, f.Username, f.AvatarURL, userID, f.AddedAt.UnixNano())
	if err != nil {
		return Favorite{}, fmt.Errorf("failed to save favorite %s: %w", f.Username, err)
	}

	s.logger.Debug().Str("username", f.Username).Msg("Favorite saved")
	return f, nil
}

// Delete removes username. Returns ErrNotFound if it was not stored.
func (s *Store) Delete(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE username = ?`, strings.TrimSpace(username))
	if err != nil {
		return fmt.Errorf("failed to delete favorite %s: %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete favorite %s: %w", username, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", username, ErrNotFound)
	}

	s.logger.Debug().Str("username", username).Msg("Favorite removed")
	return nil
}

// Get returns the favorite stored for username
func (s *Store) Get(ctx context.Context, username string) (Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT username, avatar_url, user_id, added_at
		FROM favorites WHERE username = ?
	`, strings.TrimSpace(username))

	f, err := scanFavorite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Favorite{}, fmt.Errorf("%s: %w", username, ErrNotFound)
	}
	if err != nil {
		return Favorite{}, fmt.Errorf("failed to load favorite %s: %w", username, err)
	}
	return f, nil
}

// Contains reports whether username is stored
func (s *Store) Contains(ctx context.Context, username string) (bool, error) {
	_, err := s.Get(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns all favorites, most recently added first
func (s *Store) List(ctx context.Context) ([]Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT username, avatar_url, user_id, added_at
		FROM favorites
		ORDER BY added_at DESC, username ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var out []Favorite
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return out, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFavorite(row scanner) (Favorite, error) {
	var (
		f       Favorite
		userID  sql.NullInt64
		addedAt int64
	)
	if err := row.Scan(&f.Username, &f.AvatarURL, &userID, &addedAt); err != nil {
		return Favorite{}, err
	}
	if userID.Valid {
		f.UserID = userID.Int64
	}
	f.AddedAt = time.Unix(0, addedAt)
	return f, nil
}
