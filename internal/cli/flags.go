package cli

import (
	"time"

	"codeberg.org/snonux/translatedocs/internal/config"
	"codeberg.org/snonux/translatedocs/internal/store"
	"codeberg.org/snonux/translatedocs/internal/translation"
)

// DefaultListLimit is the number of records --list prints without a value
const DefaultListLimit = store.DefaultListLimit

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	Batch      bool
	OutputDir  string
	Converter  string
	Timeout    time.Duration
	List       int
	ListModels bool
	Archive    bool

	// Translation flags
	Provider string
	Model    string

	// Store flags
	Store      string
	Table      string
	SQLitePath string

	// Batch flags
	RecordUsage     bool
	SkipExisting    bool
	ContinueOnError bool
	MaxFailures     int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		OutputDir:   config.DefaultOutputDir,
		Converter:   config.DefaultConverterCommand,
		Provider:    translation.ProviderOpenAI,
		Store:       store.BackendSupabase,
		Table:       store.DefaultTable,
		SQLitePath:  "translations.db",
		MaxFailures: config.DefaultMaxFailures,
	}
}
