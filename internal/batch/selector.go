package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"codeberg.org/snonux/translatedocs/internal"
)

// TextExt is the extension of files produced by the converter
const TextExt = ".txt"

// SelectFiles expands pattern into matching regular file paths. Patterns
// may use ** to cross directories and {a,b} alternatives, the same dialect
// the document converter understands. Zero matches is not an error; a
// malformed pattern is.
func SelectFiles(fs afero.Fs, pattern string) ([]string, error) {
	slashed := filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(slashed) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, filepath.ErrBadPattern)
	}

	base, rest := doublestar.SplitPattern(slashed)
	root := fs
	if base != "." {
		root = afero.NewBasePathFs(fs, filepath.FromSlash(base))
	}

	matches, err := doublestar.Glob(afero.NewIOFS(root), rest, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		files = append(files, filepath.Join(filepath.FromSlash(base), filepath.FromSlash(match)))
	}
	if len(files) == 0 {
		return nil, nil
	}
	sort.Strings(files)

	return files, nil
}

// TextFiles lists the text files directly inside dir, sorted by name.
// A missing directory yields no files.
func TextFiles(fs afero.Fs, dir string) ([]string, error) {
	exists, err := afero.DirExists(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", dir, err)
	}
	if !exists {
		return nil, nil
	}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), TextExt) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	return files, nil
}

// RunDir returns a fresh per-run directory below outputDir
func RunDir(outputDir string, now time.Time) string {
	return filepath.Join(outputDir, internal.GenerateRunID(now))
}
