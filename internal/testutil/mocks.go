package testutil

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"codeberg.org/snonux/translatedocs/internal/store"
	"codeberg.org/snonux/translatedocs/internal/translation"
)

// TranslateCall is one recorded call to MockTranslator
type TranslateCall struct {
	Text   string
	Prompt string
}

// MockTranslator mocks a translation provider
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error
	Model        string
	Calls        []TranslateCall
}

// Translate returns the configured translation for text, or a default one
func (m *MockTranslator) Translate(ctx context.Context, text, prompt string) (*translation.Result, error) {
	m.Calls = append(m.Calls, TranslateCall{Text: text, Prompt: prompt})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Errors[text]; ok {
		return nil, err
	}

	translated, ok := m.Translations[text]
	if !ok {
		translated = fmt.Sprintf("mock translation of %s", text)
	}

	model := m.Model
	if model == "" {
		model = "mock-model"
	}

	promptTokens := len(strings.Fields(prompt)) + len(strings.Fields(text))
	completionTokens := len(strings.Fields(translated))

	return &translation.Result{
		Text:             translated,
		Model:            model,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
	}, nil
}

// Name returns the provider name
func (m *MockTranslator) Name() string {
	return "mock"
}

// MockStore is an in-memory append-only record store
type MockStore struct {
	Records      []store.Record
	InsertErrors map[string]error // keyed by original filename
	ExistsErr    error
	Closed       bool
}

// Insert appends a copy of record
func (m *MockStore) Insert(ctx context.Context, record *store.Record) error {
	if err, ok := m.InsertErrors[record.OriginalFilename]; ok {
		return err
	}

	record.ID = int64(len(m.Records) + 1)
	m.Records = append(m.Records, *record)
	return nil
}

// List returns the newest records first
func (m *MockStore) List(ctx context.Context, limit int) ([]store.Record, error) {
	var records []store.Record
	for i := len(m.Records) - 1; i >= 0; i-- {
		if limit > 0 && len(records) == limit {
			break
		}
		records = append(records, m.Records[i])
	}
	return records, nil
}

// Exists reports whether a record with filename has been inserted
func (m *MockStore) Exists(ctx context.Context, filename string) (bool, error) {
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	for _, r := range m.Records {
		if r.OriginalFilename == filename {
			return true, nil
		}
	}
	return false, nil
}

// Close marks the store closed
func (m *MockStore) Close() error {
	m.Closed = true
	return nil
}

// ConvertCall is one recorded call to MockConverter
type ConvertCall struct {
	Pattern   string
	OutputDir string
}

// MockConverter writes fixed text files into the output directory
type MockConverter struct {
	Fs      afero.Fs
	Outputs map[string]string // file name -> content
	Log     string            // written to the progress writer
	Err     error             // returned after the outputs are written
	Calls   []ConvertCall
}

// Convert records the call and writes Outputs below outputDir
func (m *MockConverter) Convert(ctx context.Context, pattern, outputDir string, out io.Writer) error {
	m.Calls = append(m.Calls, ConvertCall{Pattern: pattern, OutputDir: outputDir})
	if out != nil && m.Log != "" {
		if _, err := io.WriteString(out, m.Log); err != nil {
			return err
		}
	}

	if err := m.Fs.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	for name, content := range m.Outputs {
		if err := afero.WriteFile(m.Fs, filepath.Join(outputDir, name), []byte(content), 0644); err != nil {
			return err
		}
	}

	return m.Err
}
