package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite"

	"taskmaster/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

// Store is the persisted client-side storage: the session token, the last
// settings snapshot per user, and the theme override flag survive restarts.
type Store struct {
	DB *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := applySchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{DB: db}, nil
}

func (s *Store) Close() error { return s.DB.Close() }

func applySchema(ctx context.Context, db *sql.DB) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return nil
}

func (s *Store) SaveToken(ctx context.Context, token string) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO session (id, token) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET token = excluded.token, updated_at = CURRENT_TIMESTAMP",
		token)
	return err
}

// LoadToken returns the persisted token, or "" when no session is stored.
func (s *Store) LoadToken(ctx context.Context) (string, error) {
	var token string
	err := s.DB.QueryRowContext(ctx, "SELECT token FROM session WHERE id = 1").Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *Store) ClearToken(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, "DELETE FROM session WHERE id = 1")
	return err
}

func (s *Store) SaveSettings(ctx context.Context, userID int64, settings model.Settings) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO settings_snapshot (user_id, theme, date_format, language, default_priority, default_status)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   theme = excluded.theme,
		   date_format = excluded.date_format,
		   language = excluded.language,
		   default_priority = excluded.default_priority,
		   default_status = excluded.default_status,
		   updated_at = CURRENT_TIMESTAMP`,
		userID, settings.Theme, settings.DateFormat, settings.Language,
		settings.DefaultPriority, settings.DefaultStatus)
	return err
}

func (s *Store) LoadSettings(ctx context.Context, userID int64) (model.Settings, bool, error) {
	var settings model.Settings
	err := s.DB.QueryRowContext(ctx,
		"SELECT theme, date_format, language, default_priority, default_status FROM settings_snapshot WHERE user_id = ?",
		userID).Scan(&settings.Theme, &settings.DateFormat, &settings.Language,
		&settings.DefaultPriority, &settings.DefaultStatus)
	if err == sql.ErrNoRows {
		return model.Settings{}, false, nil
	}
	if err != nil {
		return model.Settings{}, false, err
	}
	return settings, true, nil
}

func (s *Store) SetDarkOverride(ctx context.Context, dark bool) error {
	value := 0
	if dark {
		value = 1
	}
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO theme_override (id, dark) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET dark = excluded.dark",
		value)
	return err
}

func (s *Store) DarkOverride(ctx context.Context) (bool, error) {
	var value int
	err := s.DB.QueryRowContext(ctx, "SELECT dark FROM theme_override WHERE id = 1").Scan(&value)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == 1, nil
}
