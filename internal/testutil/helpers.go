package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// CreateTestFile creates a file with content, including parent directories
func CreateTestFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()

	if ok, _ := afero.Exists(fs, path); !ok {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()

	if ok, _ := afero.Exists(fs, path); ok {
		t.Errorf("Expected file to not exist: %s", path)
	}
}
