package store

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

const (
	// BackendSupabase stores records through the Supabase REST API
	BackendSupabase = "supabase"
	// BackendPostgres stores records in a Postgres database via gorm
	BackendPostgres = "postgres"
	// BackendSQLite stores records in a local SQLite file
	BackendSQLite = "sqlite"

	// DefaultTable is the name of the translations table
	DefaultTable = "translations"

	// DefaultListLimit caps List when no positive limit is given
	DefaultListLimit = 20
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Record is one persisted translation. Usage fields are optional and are
// only filled in when usage recording is enabled.
type Record struct {
	ID               int64     `json:"id,omitempty" yaml:"id,omitempty" gorm:"primaryKey;autoIncrement"`
	OriginalFilename string    `json:"original_filename" yaml:"original_filename" gorm:"type:text;not null;index"`
	OriginalText     string    `json:"original_text" yaml:"original_text" gorm:"type:text;not null"`
	TranslatedText   string    `json:"translated_text" yaml:"translated_text" gorm:"type:text;not null"`
	Timestamp        time.Time `json:"timestamp" yaml:"timestamp" gorm:"not null"`

	Model            string `json:"model,omitempty" yaml:"model,omitempty" gorm:"type:text"`
	Prompt           string `json:"prompt,omitempty" yaml:"prompt,omitempty" gorm:"type:text"`
	PromptTokens     int    `json:"prompt_tokens,omitempty" yaml:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty" yaml:"completion_tokens,omitempty"`
	TotalTokens      int    `json:"total_tokens,omitempty" yaml:"total_tokens,omitempty"`
}

// NewRecord creates a record captured at now, stored in UTC
func NewRecord(filename, originalText, translatedText string, now time.Time) *Record {
	return &Record{
		OriginalFilename: filename,
		OriginalText:     originalText,
		TranslatedText:   translatedText,
		Timestamp:        now.UTC(),
	}
}

// Store defines the interface for translation record persistence
type Store interface {
	// Insert appends one record
	Insert(ctx context.Context, record *Record) error

	// List returns up to limit records, newest first
	List(ctx context.Context, limit int) ([]Record, error)

	// Exists reports whether any record has the given original filename
	Exists(ctx context.Context, filename string) (bool, error)

	// Close releases the underlying connection
	Close() error
}

// Config holds configuration for store backends
type Config struct {
	Backend string // "supabase", "postgres" or "sqlite"
	Table   string

	// Supabase-specific settings
	SupabaseURL string
	SupabaseKey string

	// Postgres-specific settings
	DatabaseURL string

	// SQLite-specific settings
	SQLitePath string
}

// New creates the appropriate store based on configuration
func New(ctx context.Context, config *Config) (Store, error) {
	if config == nil {
		return nil, fmt.Errorf("store config is required")
	}

	table := config.Table
	if table == "" {
		table = DefaultTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name: %q", table)
	}

	switch config.Backend {
	case BackendSupabase, "":
		return NewSupabaseStore(config.SupabaseURL, config.SupabaseKey, table)
	case BackendPostgres:
		return NewPostgresStore(ctx, config.DatabaseURL, table)
	case BackendSQLite:
		return NewSQLiteStore(ctx, config.SQLitePath, table)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", config.Backend)
	}
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
