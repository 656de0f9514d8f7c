package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"codeberg.org/snonux/translatedocs/internal/converter"
	"codeberg.org/snonux/translatedocs/internal/store"
	"codeberg.org/snonux/translatedocs/internal/translation"
)

const (
	// DefaultOutputDir is where converted text files are written
	DefaultOutputDir = "converted"
	// DefaultConverterCommand is the external document converter
	DefaultConverterCommand = "node src/convert.mjs"
	// DefaultMaxFailures is the consecutive-failure limit with continue-on-error
	DefaultMaxFailures = 3
)

// Viper keys
const (
	KeyProvider        = "translation.provider"
	KeyModel           = "translation.model"
	KeyOpenAIKey       = "translation.openai_api_key"
	KeyOpenAIBaseURL   = "translation.openai_base_url"
	KeyGeminiKey       = "translation.gemini_api_key"
	KeyStoreBackend    = "store.backend"
	KeyTable           = "store.table"
	KeySupabaseURL     = "store.supabase_url"
	KeySupabaseKey     = "store.supabase_key"
	KeyDatabaseURL     = "store.database_url"
	KeySQLitePath      = "store.sqlite_path"
	KeyConverter       = "converter.command"
	KeyOutputDir       = "output.directory"
	KeyPrompt          = "prompt"
	KeyRecordUsage     = "batch.record_usage"
	KeySkipExisting    = "batch.skip_existing"
	KeyContinueOnError = "batch.continue_on_error"
	KeyMaxFailures     = "batch.max_failures"
	KeyTimeout         = "timeout"
)

// MissingError reports a required configuration value that is absent
type MissingError struct {
	Key    string // Environment variable or config key to set
	Reason string // What needs it
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing configuration %s: required by %s", e.Key, e.Reason)
}

// Config holds everything needed to build the clients and run the pipeline
type Config struct {
	Translation translation.Config
	Store       store.Config
	Converter   converter.Config

	OutputDir       string
	Prompt          string
	RecordUsage     bool
	SkipExisting    bool
	ContinueOnError bool
	MaxFailures     int
	Timeout         time.Duration
}

// LoadDotEnv loads variables from .env files into the process environment.
// Missing files are ignored; variables already set are never overridden.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyProvider, translation.ProviderOpenAI)
	v.SetDefault(KeyStoreBackend, store.BackendSupabase)
	v.SetDefault(KeyTable, store.DefaultTable)
	v.SetDefault(KeySQLitePath, "translations.db")
	v.SetDefault(KeyConverter, DefaultConverterCommand)
	v.SetDefault(KeyOutputDir, DefaultOutputDir)
	v.SetDefault(KeyPrompt, translation.DefaultPrompt)
	v.SetDefault(KeyMaxFailures, DefaultMaxFailures)
}

// BindEnv maps the conventional environment variable names onto config keys.
// Prefixed variables (TRANSLATEDOCS_...) are picked up by AutomaticEnv.
func BindEnv(v *viper.Viper) {
	v.BindEnv(KeyOpenAIKey, "OPENAI_API_KEY", "TRANSLATEDOCS_OPENAI_API_KEY")
	v.BindEnv(KeyOpenAIBaseURL, "OPENAI_BASE_URL", "TRANSLATEDOCS_OPENAI_BASE_URL")
	v.BindEnv(KeyGeminiKey, "GEMINI_API_KEY", "GOOGLE_API_KEY", "TRANSLATEDOCS_GEMINI_API_KEY")
	v.BindEnv(KeySupabaseURL, "SUPABASE_URL", "TRANSLATEDOCS_SUPABASE_URL")
	v.BindEnv(KeySupabaseKey, "SUPABASE_KEY", "SUPABASE_ANON_KEY", "TRANSLATEDOCS_SUPABASE_KEY")
	v.BindEnv(KeyDatabaseURL, "DATABASE_URL", "TRANSLATEDOCS_DATABASE_URL")
}

// Load reads the configuration from v and validates it
func Load(v *viper.Viper) (*Config, error) {
	cfg := Read(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads the configuration from v without validating it
func Read(v *viper.Viper) *Config {
	return &Config{
		Translation: translation.Config{
			Provider:      strings.ToLower(v.GetString(KeyProvider)),
			Model:         v.GetString(KeyModel),
			OpenAIKey:     v.GetString(KeyOpenAIKey),
			OpenAIBaseURL: v.GetString(KeyOpenAIBaseURL),
			GeminiKey:     v.GetString(KeyGeminiKey),
		},
		Store: store.Config{
			Backend:     strings.ToLower(v.GetString(KeyStoreBackend)),
			Table:       v.GetString(KeyTable),
			SupabaseURL: v.GetString(KeySupabaseURL),
			SupabaseKey: v.GetString(KeySupabaseKey),
			DatabaseURL: v.GetString(KeyDatabaseURL),
			SQLitePath:  v.GetString(KeySQLitePath),
		},
		Converter: converter.Config{
			Command: strings.Fields(v.GetString(KeyConverter)),
		},
		OutputDir:       v.GetString(KeyOutputDir),
		Prompt:          v.GetString(KeyPrompt),
		RecordUsage:     v.GetBool(KeyRecordUsage),
		SkipExisting:    v.GetBool(KeySkipExisting),
		ContinueOnError: v.GetBool(KeyContinueOnError),
		MaxFailures:     v.GetInt(KeyMaxFailures),
		Timeout:         v.GetDuration(KeyTimeout),
	}
}

// Validate checks every value needed by a batch run, which is a superset
// of what a single file needs
func (c *Config) Validate() error {
	if err := c.ValidateSingle(); err != nil {
		return err
	}
	return c.ValidateBatch()
}

// ValidateSingle checks the values needed to translate and store one file
func (c *Config) ValidateSingle() error {
	if err := c.ValidateTranslation(); err != nil {
		return err
	}
	if err := c.ValidateStore(); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%s must not be negative", KeyTimeout)
	}
	return nil
}

// ValidateBatch checks the converter and failure policy settings only
func (c *Config) ValidateBatch() error {
	if len(c.Converter.Command) == 0 {
		return &MissingError{Key: KeyConverter, Reason: "batch conversion"}
	}
	if c.OutputDir == "" {
		return &MissingError{Key: KeyOutputDir, Reason: "batch conversion"}
	}
	if c.MaxFailures < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyMaxFailures, c.MaxFailures)
	}
	return nil
}

// ValidateTranslation checks the translation provider settings only
func (c *Config) ValidateTranslation() error {
	switch c.Translation.Provider {
	case translation.ProviderOpenAI:
		if c.Translation.OpenAIKey == "" {
			return &MissingError{Key: "OPENAI_API_KEY", Reason: "the openai translation provider"}
		}
	case translation.ProviderGemini:
		if c.Translation.GeminiKey == "" {
			return &MissingError{Key: "GEMINI_API_KEY", Reason: "the gemini translation provider"}
		}
	default:
		return fmt.Errorf("unknown translation provider: %q", c.Translation.Provider)
	}
	return nil
}

// ValidateStore checks the store backend settings only
func (c *Config) ValidateStore() error {
	if c.Store.Table == "" {
		return &MissingError{Key: KeyTable, Reason: "the translation store"}
	}

	switch c.Store.Backend {
	case store.BackendSupabase:
		if c.Store.SupabaseURL == "" {
			return &MissingError{Key: "SUPABASE_URL", Reason: "the supabase store"}
		}
		if c.Store.SupabaseKey == "" {
			return &MissingError{Key: "SUPABASE_KEY", Reason: "the supabase store"}
		}
	case store.BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return &MissingError{Key: "DATABASE_URL", Reason: "the postgres store"}
		}
	case store.BackendSQLite:
		if c.Store.SQLitePath == "" {
			return &MissingError{Key: KeySQLitePath, Reason: "the sqlite store"}
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}
	return nil
}
