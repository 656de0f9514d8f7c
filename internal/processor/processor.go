package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sony/gobreaker"
	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"codeberg.org/snonux/translatedocs/internal/batch"
	"codeberg.org/snonux/translatedocs/internal/converter"
	"codeberg.org/snonux/translatedocs/internal/store"
	"codeberg.org/snonux/translatedocs/internal/translation"
)

// Options controls batch behaviour
type Options struct {
	OutputDir       string // Parent of the per-run conversion directories
	RecordUsage     bool   // Store model, prompt and token counts with each record
	SkipExisting    bool   // Skip files whose name is already in the store
	ContinueOnError bool   // Keep going after a failed file
}

// Summary counts the outcome of a batch run
type Summary struct {
	Found     int // Text files produced by the conversion
	Processed int
	Skipped   int
	Failed    int
}

// Processor handles the main document processing logic
type Processor struct {
	translator translation.Provider
	store      store.Store
	converter  converter.Converter
	opts       Options

	fs     afero.Fs
	out    io.Writer
	errOut io.Writer
	now    func() time.Time
}

// Option customizes a Processor
type Option func(*Processor)

// WithFs sets the filesystem used to select and read files
func WithFs(fs afero.Fs) Option {
	return func(p *Processor) { p.fs = fs }
}

// WithOutput sets the writers for progress and error messages
func WithOutput(out, errOut io.Writer) Option {
	return func(p *Processor) {
		p.out = out
		p.errOut = errOut
	}
}

// WithClock sets the time source for record timestamps and run ids
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// NewProcessor creates a new document processor from already built clients
func NewProcessor(translator translation.Provider, st store.Store, conv converter.Converter, opts Options, options ...Option) *Processor {
	p := &Processor{
		translator: translator,
		store:      st,
		converter:  conv,
		opts:       opts,
		fs:         afero.NewOsFs(),
		out:        os.Stdout,
		errOut:     os.Stderr,
		now:        time.Now,
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// ErrAlreadyStored is returned by ProcessFile when SkipExisting is set and
// the store already holds a record with the file's name.
var ErrAlreadyStored = errors.New("already stored")

// ProcessFile translates one file and stores exactly one record for it
func (p *Processor) ProcessFile(ctx context.Context, path, prompt string) (*store.Record, error) {
	if prompt == "" {
		prompt = translation.DefaultPrompt
	}
	name := filepath.Base(path)

	if p.opts.SkipExisting {
		exists, err := p.store.Exists(ctx, name)
		if err != nil {
			return nil, &StageError{Stage: StagePersist, File: name, Err: err}
		}
		if exists {
			fmt.Fprintf(p.out, "  ✓ Skipping '%s' - already stored\n", name)
			return nil, ErrAlreadyStored
		}
	}

	content, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return nil, &StageError{Stage: StageRead, File: name, Err: err}
	}

	fmt.Fprintf(p.out, "  Translating with %s...\n", p.translator.Name())
	result, err := p.translator.Translate(ctx, string(content), prompt)
	if err != nil {
		return nil, &StageError{Stage: StageTranslate, File: name, Err: err}
	}

	record := store.NewRecord(name, string(content), result.Text, p.now())
	if p.opts.RecordUsage {
		record.Model = result.Model
		record.Prompt = prompt
		record.PromptTokens = result.PromptTokens
		record.CompletionTokens = result.CompletionTokens
		record.TotalTokens = result.TotalTokens
	}

	if err := p.store.Insert(ctx, record); err != nil {
		return nil, &StageError{Stage: StagePersist, File: name, Err: err}
	}
	fmt.Fprintf(p.out, "  Stored translation of %s\n", name)

	return record, nil
}

// ProcessBatch converts the documents matching pattern into a fresh run
// directory and processes every text file the conversion produced
func (p *Processor) ProcessBatch(ctx context.Context, pattern, prompt string) (*Summary, error) {
	summary := &Summary{}

	files, err := batch.SelectFiles(p.fs, pattern)
	if err != nil {
		return summary, &StageError{Stage: StageSelect, Err: err}
	}
	if len(files) == 0 {
		fmt.Fprintf(p.out, "No files found matching pattern: %s\n", pattern)
		return summary, nil
	}

	runDir := batch.RunDir(p.opts.OutputDir, p.now())
	fmt.Fprintf(p.out, "Converting %d files into %s\n", len(files), runDir)

	// The converter creates runDir itself. Partial output is kept.
	if err := p.converter.Convert(ctx, pattern, runDir, p.out); err != nil {
		p.removeEmptyDir(runDir)
		return summary, &StageError{Stage: StageConvert, Err: err}
	}

	texts, err := batch.TextFiles(p.fs, runDir)
	if err != nil {
		return summary, &StageError{Stage: StageConvert, Err: err}
	}
	summary.Found = len(texts)
	if len(texts) == 0 {
		fmt.Fprintf(p.out, "Conversion produced no text files in %s\n", runDir)
		return summary, nil
	}

	var errs error
	for i, path := range texts {
		name := filepath.Base(path)
		fmt.Fprintf(p.out, "\nProcessing %d/%d: %s\n", i+1, len(texts), name)

		_, err := p.ProcessFile(ctx, path, prompt)
		if errors.Is(err, ErrAlreadyStored) {
			summary.Skipped++
			continue
		}
		if err != nil {
			fmt.Fprintf(p.errOut, "Error processing '%s': %v\n", name, err)
			summary.Failed++
			errs = multierr.Append(errs, err)

			if !p.opts.ContinueOnError || errors.Is(err, gobreaker.ErrOpenState) || ctx.Err() != nil {
				p.printSummary(summary)
				return summary, errs
			}
			continue
		}
		summary.Processed++
	}

	p.printSummary(summary)
	return summary, errs
}

func (p *Processor) removeEmptyDir(dir string) {
	if ok, _ := afero.DirExists(p.fs, dir); !ok {
		return
	}
	if empty, _ := afero.IsEmpty(p.fs, dir); empty {
		_ = p.fs.Remove(dir)
	}
}

func (p *Processor) printSummary(s *Summary) {
	fmt.Fprintf(p.out, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(p.out, "Total files: %d\n", s.Found)
	fmt.Fprintf(p.out, "Processed: %d\n", s.Processed)
	if s.Skipped > 0 {
		fmt.Fprintf(p.out, "Skipped (already stored): %d\n", s.Skipped)
	}
	if s.Failed > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", s.Failed)
	}
	fmt.Fprintf(p.out, "================================\n")
}
