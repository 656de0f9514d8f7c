package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestArchiveDir(t *testing.T) {
	tmpDir := t.TempDir()
	fs := afero.NewOsFs()

	// Output directory with one run inside
	outDir := filepath.Join(tmpDir, "converted")
	runDir := filepath.Join(outDir, "20240513-093015_ab12cd34")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatalf("Failed to create run directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "notes.txt"), []byte("hola"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	var out bytes.Buffer
	now := time.Date(2024, 5, 13, 10, 0, 0, 0, time.UTC)
	archivePath, err := ArchiveDir(fs, outDir, now, &out)
	if err != nil {
		t.Fatalf("ArchiveDir failed: %v", err)
	}

	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Error("Output directory still exists after archiving")
	}

	if filepath.Dir(archivePath) != filepath.Join(tmpDir, "archive") {
		t.Errorf("archived to %s, want a path below %s/archive", archivePath, tmpDir)
	}
	if !strings.HasPrefix(filepath.Base(archivePath), "converted-20240513-100000_") {
		t.Errorf("unexpected archive name: %s", filepath.Base(archivePath))
	}

	content, err := os.ReadFile(filepath.Join(archivePath, "20240513-093015_ab12cd34", "notes.txt"))
	if err != nil {
		t.Fatalf("archived file missing: %v", err)
	}
	if string(content) != "hola" {
		t.Errorf("archived content = %q, want hola", content)
	}

	if !strings.Contains(out.String(), archivePath) {
		t.Errorf("output does not mention archive path: %s", out.String())
	}
}

func TestArchiveDirTwice(t *testing.T) {
	tmpDir := t.TempDir()
	fs := afero.NewOsFs()
	outDir := filepath.Join(tmpDir, "converted")
	now := time.Date(2024, 5, 13, 10, 0, 0, 0, time.UTC)

	var paths []string
	for i := 0; i < 2; i++ {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			t.Fatal(err)
		}
		path, err := ArchiveDir(fs, outDir, now, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("ArchiveDir run %d failed: %v", i+1, err)
		}
		paths = append(paths, path)
	}

	if paths[0] == paths[1] {
		t.Errorf("both archives use %s", paths[0])
	}

	entries, err := os.ReadDir(filepath.Join(tmpDir, "archive"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 archives, got %d", len(entries))
	}
}

func TestArchiveDirMissing(t *testing.T) {
	_, err := ArchiveDir(afero.NewOsFs(), filepath.Join(t.TempDir(), "nope"), time.Now(), &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("unexpected error: %v", err)
	}
}
