package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS quiz_stats (
	quiz_id TEXT PRIMARY KEY,
	wins    INTEGER NOT NULL DEFAULT 0,
	fails   INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

const (
	nicknameKey = "nickname"
	flagPrefix  = "flag:"
)

// SQLiteStore keeps data in a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and applies the schema
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// sqlite serializes writers; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) IncrementWin(ctx context.Context, quizID string) error {
	if err := checkQuizID(quizID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quiz_stats (quiz_id, wins, fails) VALUES (?, 1, 0)
		ON CONFLICT(quiz_id) DO UPDATE SET wins = wins + 1`, quizID)
	if err != nil {
		return fmt.Errorf("failed to increment wins: %w", err)
	}
	return nil
}

func (s *SQLiteStore) IncrementFail(ctx context.Context, quizID string) error {
	if err := checkQuizID(quizID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quiz_stats (quiz_id, wins, fails) VALUES (?, 0, 1)
		ON CONFLICT(quiz_id) DO UPDATE SET fails = fails + 1`, quizID)
	if err != nil {
		return fmt.Errorf("failed to increment fails: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Stats(ctx context.Context, quizID string) (Stats, error) {
	if err := checkQuizID(quizID); err != nil {
		return Stats{}, err
	}
	stats := Stats{QuizID: quizID}
	err := s.db.QueryRowContext(ctx,
		`SELECT wins, fails FROM quiz_stats WHERE quiz_id = ?`, quizID,
	).Scan(&stats.Wins, &stats.Fails)
	if errors.Is(err, sql.ErrNoRows) {
		return stats, nil
	}
	if err != nil {
		return Stats{}, fmt.Errorf("failed to query stats: %w", err)
	}
	return stats, nil
}

func (s *SQLiteStore) Nickname(ctx context.Context) (string, error) {
	value, _, err := s.getSetting(ctx, nicknameKey)
	return value, err
}

func (s *SQLiteStore) SetNickname(ctx context.Context, nickname string) error {
	return s.putSetting(ctx, nicknameKey, nickname)
}

func (s *SQLiteStore) Flag(ctx context.Context, name string) (bool, error) {
	if err := checkFlag(name); err != nil {
		return false, err
	}
	value, ok, err := s.getSetting(ctx, flagPrefix+name)
	if err != nil || !ok {
		return false, err
	}
	return value == "1", nil
}

func (s *SQLiteStore) SetFlag(ctx context.Context, name string, value bool) error {
	if err := checkFlag(name); err != nil {
		return err
	}
	v := "0"
	if value {
		v = "1"
	}
	return s.putSetting(ctx, flagPrefix+name, v)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) getSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) putSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}
