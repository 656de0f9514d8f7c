package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"codeberg.org/snonux/translatedocs/internal/archive"
	"codeberg.org/snonux/translatedocs/internal/cli"
	"codeberg.org/snonux/translatedocs/internal/config"
	"codeberg.org/snonux/translatedocs/internal/converter"
	"codeberg.org/snonux/translatedocs/internal/models"
	"codeberg.org/snonux/translatedocs/internal/processor"
	"codeberg.org/snonux/translatedocs/internal/store"
	"codeberg.org/snonux/translatedocs/internal/translation"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	var initErr error
	cobra.OnInitialize(func() {
		initErr = cli.InitConfig(viper.GetViper(), flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if initErr != nil {
			return initErr
		}
		return runCommand(cmd, args, flags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := cmd.Context()
	cfg := config.Read(viper.GetViper())

	// Handle --archive flag
	if flags.Archive {
		_, err := archive.ArchiveDir(afero.NewOsFs(), cfg.OutputDir, time.Now(), os.Stdout)
		return err
	}

	// Handle --list-models flag
	if flags.ListModels {
		if err := cfg.ValidateTranslation(); err != nil {
			return err
		}
		lister, err := models.New(ctx, &cfg.Translation, os.Stdout)
		if err != nil {
			return err
		}
		return lister.ListAvailableModels(ctx)
	}

	// Handle --list flag
	if flags.List > 0 {
		return listRecords(ctx, cfg, flags.List)
	}

	req, err := cli.ParseArgs(flags, args)
	if errors.Is(err, cli.ErrUsage) {
		return cli.UsageError(cmd, err)
	}
	if err != nil {
		return err
	}

	// Validate everything before any client is built
	if err := cfg.ValidateSingle(); err != nil {
		return err
	}
	if req.Batch {
		if err := cfg.ValidateBatch(); err != nil {
			return err
		}
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	prompt := req.Prompt
	if prompt == "" {
		prompt = cfg.Prompt
	}

	provider, err := translation.NewProvider(ctx, &cfg.Translation)
	if err != nil {
		return err
	}
	if req.Batch && cfg.ContinueOnError {
		provider = translation.NewBreaker(provider, cfg.MaxFailures)
	}

	st, err := store.New(ctx, &cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := processor.Options{
		OutputDir:       cfg.OutputDir,
		RecordUsage:     cfg.RecordUsage,
		SkipExisting:    cfg.SkipExisting,
		ContinueOnError: cfg.ContinueOnError,
	}

	// Single file mode needs no converter
	if !req.Batch {
		proc := processor.NewProcessor(provider, st, nil, opts)
		fmt.Printf("\nProcessing: %s\n", req.Target)
		_, err := proc.ProcessFile(ctx, req.Target, prompt)
		if errors.Is(err, processor.ErrAlreadyStored) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("\nDone! Translation of %s stored in %s\n", req.Target, cfg.Store.Table)
		return nil
	}

	conv, err := converter.NewCommandConverter(&cfg.Converter)
	if err != nil {
		return err
	}

	proc := processor.NewProcessor(provider, st, conv, opts)
	summary, err := proc.ProcessBatch(ctx, req.Target, prompt)
	if err != nil {
		return err
	}
	if summary.Processed > 0 {
		fmt.Printf("\nDone! %d translations stored in %s\n", summary.Processed, cfg.Store.Table)
	}
	return nil
}

func listRecords(ctx context.Context, cfg *config.Config, limit int) error {
	if err := cfg.ValidateStore(); err != nil {
		return err
	}

	st, err := store.New(ctx, &cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.List(ctx, limit)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(records)
}
