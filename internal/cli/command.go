package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/translatedocs/internal"
	"codeberg.org/snonux/translatedocs/internal/config"
)

// ErrUsage is returned when neither a file nor a pattern was given
var ErrUsage = errors.New("a file path or, with -b, a pattern is required")

// Request is one parsed invocation
type Request struct {
	Batch  bool
	Target string // File path in single mode, glob pattern in batch mode
	Prompt string // Empty when not given on the command line
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "translatedocs [filepath|pattern] [prompt]",
		Short: "Document translation and archival tool",
		Long: `translatedocs converts documents to text, translates the text with a
language model and stores the original and translated text in a database.

Examples:
  translatedocs notes.txt                        # Translate one text file
  translatedocs notes.txt "Translate to German"  # With a custom prompt
  translatedocs -b "docs/*.pdf"                  # Convert and translate a batch
  translatedocs --list=5                         # Show the latest stored records`,
		Args:          cobra.MaximumNArgs(2),
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.translatedocs.yaml)")

	// Local flags
	cmd.Flags().BoolVarP(&flags.Batch, "batch", "b", false, "Treat the first argument as a glob pattern and convert the matches first")
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", flags.OutputDir, "Directory for converted text files (one subdirectory per run)")
	cmd.Flags().StringVar(&flags.Converter, "converter", flags.Converter, "Document converter command")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Abort the whole run after this duration (0 means no limit)")
	cmd.Flags().IntVar(&flags.List, "list", 0, "Print the latest stored records as YAML and exit")
	cmd.Flags().Lookup("list").NoOptDefVal = strconv.Itoa(DefaultListLimit)
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available chat models for the current API key")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the output directory into the archive and exit")

	// Translation flags
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Translation provider: openai or gemini")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Model name (default depends on provider)")

	// Store flags
	cmd.Flags().StringVar(&flags.Store, "store", flags.Store, "Record store: supabase, postgres or sqlite")
	cmd.Flags().StringVar(&flags.Table, "table", flags.Table, "Table that receives the records")
	cmd.Flags().StringVar(&flags.SQLitePath, "sqlite-path", flags.SQLitePath, "Database file for the sqlite store")

	// Batch flags
	cmd.Flags().BoolVar(&flags.RecordUsage, "record-usage", false, "Also store model, prompt and token usage")
	cmd.Flags().BoolVar(&flags.SkipExisting, "skip-existing", false, "Skip files whose name is already stored, for single files and batches")
	cmd.Flags().BoolVar(&flags.ContinueOnError, "continue-on-error", false, "Keep processing a batch after a failed file")
	cmd.Flags().IntVar(&flags.MaxFailures, "max-failures", flags.MaxFailures, "Consecutive translation failures before giving up (with --continue-on-error)")

	bindFlagsToViper(cmd, viper.GetViper())
}

func bindFlagsToViper(cmd *cobra.Command, v *viper.Viper) {
	v.BindPFlag(config.KeyOutputDir, cmd.Flags().Lookup("output"))
	v.BindPFlag(config.KeyConverter, cmd.Flags().Lookup("converter"))
	v.BindPFlag(config.KeyTimeout, cmd.Flags().Lookup("timeout"))
	v.BindPFlag(config.KeyProvider, cmd.Flags().Lookup("provider"))
	v.BindPFlag(config.KeyModel, cmd.Flags().Lookup("model"))
	v.BindPFlag(config.KeyStoreBackend, cmd.Flags().Lookup("store"))
	v.BindPFlag(config.KeyTable, cmd.Flags().Lookup("table"))
	v.BindPFlag(config.KeySQLitePath, cmd.Flags().Lookup("sqlite-path"))
	v.BindPFlag(config.KeyRecordUsage, cmd.Flags().Lookup("record-usage"))
	v.BindPFlag(config.KeySkipExisting, cmd.Flags().Lookup("skip-existing"))
	v.BindPFlag(config.KeyContinueOnError, cmd.Flags().Lookup("continue-on-error"))
	v.BindPFlag(config.KeyMaxFailures, cmd.Flags().Lookup("max-failures"))
}

// InitConfig initializes viper configuration from .env, the config file and
// the environment
func InitConfig(v *viper.Viper, cfgFile string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	if cfgFile != "" {
		// Use config file from the flag
		v.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory with name ".translatedocs" (without extension)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".translatedocs")
	}

	config.SetDefaults(v)

	// Environment variables
	v.SetEnvPrefix("TRANSLATEDOCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	config.BindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		return nil
	}
	fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	return nil
}

// ParseArgs turns positional arguments into a Request
func ParseArgs(flags *Flags, args []string) (*Request, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, ErrUsage
	}

	req := &Request{Batch: flags.Batch, Target: args[0]}
	if len(args) > 1 {
		req.Prompt = args[1]
	}
	return req, nil
}

// UsageError prints the command usage and returns err, together with any
// failure to print the usage
func UsageError(cmd *cobra.Command, err error) error {
	if uerr := cmd.Usage(); uerr != nil {
		return errors.Join(err, fmt.Errorf("failed to print usage: %w", uerr))
	}
	return err
}
