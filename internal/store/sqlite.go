package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// timestampLayout is fixed width so timestamps sort correctly as text
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore writes records to a local SQLite database
type SQLiteStore struct {
	db    *sql.DB
	table string
}

// NewSQLiteStore opens or creates the database at path and creates the
// table if it does not exist
func NewSQLiteStore(ctx context.Context, path, table string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db, table: table}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) createSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			original_filename TEXT NOT NULL,
			original_text TEXT NOT NULL,
			translated_text TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			model TEXT,
			prompt TEXT,
			prompt_tokens INTEGER,
			completion_tokens INTEGER,
			total_tokens INTEGER
		)`, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_original_filename ON %s(original_filename)`, s.table, s.table),
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Insert appends one row
func (s *SQLiteStore) Insert(ctx context.Context, record *Record) error {
	query := fmt.Sprintf(`INSERT INTO %s (
		original_filename, original_text, translated_text, timestamp,
		model, prompt, prompt_tokens, completion_tokens, total_tokens
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)

	res, err := s.db.ExecContext(ctx, query,
		record.OriginalFilename,
		record.OriginalText,
		record.TranslatedText,
		record.Timestamp.UTC().Format(timestampLayout),
		record.Model,
		record.Prompt,
		record.PromptTokens,
		record.CompletionTokens,
		record.TotalTokens,
	)
	if err != nil {
		return fmt.Errorf("sqlite insert: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		record.ID = id
	}
	return nil
}

// List returns the newest rows
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Record, error) {
	query := fmt.Sprintf(`SELECT id, original_filename, original_text, translated_text, timestamp,
		COALESCE(model, ''), COALESCE(prompt, ''),
		COALESCE(prompt_tokens, 0), COALESCE(completion_tokens, 0), COALESCE(total_tokens, 0)
		FROM %s ORDER BY timestamp DESC, id DESC LIMIT ?`, s.table)

	rows, err := s.db.QueryContext(ctx, query, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("sqlite list: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var ts string
		if err := rows.Scan(&r.ID, &r.OriginalFilename, &r.OriginalText, &r.TranslatedText, &ts,
			&r.Model, &r.Prompt, &r.PromptTokens, &r.CompletionTokens, &r.TotalTokens); err != nil {
			return nil, fmt.Errorf("sqlite scan: %w", err)
		}
		r.Timestamp, err = time.Parse(timestampLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("sqlite timestamp %q: %w", ts, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Exists checks for a row with the given original filename
func (s *SQLiteStore) Exists(ctx context.Context, filename string) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE original_filename = ? LIMIT 1`, s.table)

	var one int
	err := s.db.QueryRowContext(ctx, query, filename).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite lookup: %w", err)
	}
	return true, nil
}

// Close releases the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
