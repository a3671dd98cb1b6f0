package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	sqlitemigrate "github.com/studentreg/web/internal/platform/storage/sqlitemigrate"
	webstorage "github.com/studentreg/web/internal/services/web/storage"
	"github.com/studentreg/web/internal/services/web/storage/sqlite/migrations"
)

// Store provides SQLite-backed persistence for web sessions.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens and migrates a session database at path, creating its
// directory when needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, now: time.Now}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveSession upserts a session row.
func (s *Store) SaveSession(ctx context.Context, session webstorage.Session) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	session, err := session.Validate()
	if err != nil {
		return err
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now().UTC()
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO web_sessions (id, token, created_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		    token = excluded.token,
		    created_at = excluded.created_at,
		    expires_at = excluded.expires_at`,
		session.ID,
		session.Token,
		timeToUnixMillis(session.CreatedAt),
		timeToUnixMillis(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns the session for id. Expired rows are deleted and
// reported as absent.
func (s *Store) LoadSession(ctx context.Context, id string) (webstorage.Session, bool, error) {
	if s == nil || s.sqlDB == nil {
		return webstorage.Session{}, false, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return webstorage.Session{}, false, nil
	}

	var (
		session   webstorage.Session
		createdAt int64
		expiresAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, token, created_at, expires_at FROM web_sessions WHERE id = ?`, id,
	).Scan(&session.ID, &session.Token, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return webstorage.Session{}, false, nil
	}
	if err != nil {
		return webstorage.Session{}, false, fmt.Errorf("load session: %w", err)
	}
	session.CreatedAt = unixMillisToTime(createdAt)
	session.ExpiresAt = unixMillisToTime(expiresAt)

	if session.Expired(s.now()) {
		if err := s.DeleteSession(ctx, id); err != nil {
			return webstorage.Session{}, false, err
		}
		return webstorage.Session{}, false, nil
	}
	return session, true, nil
}

// DeleteSession removes a session row.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM web_sessions WHERE id = ?`, strings.TrimSpace(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired deletes every session past its expiry and returns the count.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM web_sessions WHERE expires_at > 0 AND expires_at <= ?`,
		timeToUnixMillis(s.now()),
	)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return result.RowsAffected()
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}
