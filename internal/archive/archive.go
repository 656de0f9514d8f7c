// Package archive moves a finished output directory aside so the next run
// starts from an empty one.
package archive

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"codeberg.org/snonux/translatedocs/internal"
)

// DirName is the name of the archive directory created next to the
// archived directory
const DirName = "archive"

// ArchiveDir moves dir to <parent>/archive/<name>-<run id> and returns the
// new location
func ArchiveDir(fs afero.Fs, dir string, now time.Time, out io.Writer) (string, error) {
	exists, err := afero.DirExists(fs, dir)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", dir, err)
	}
	if !exists {
		return "", fmt.Errorf("output directory does not exist: %s", dir)
	}

	clean := filepath.Clean(dir)
	archiveDir := filepath.Join(filepath.Dir(clean), DirName)
	if err := fs.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s", filepath.Base(clean), internal.GenerateRunID(now)))
	if err := fs.Rename(clean, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive output directory: %w", err)
	}

	fmt.Fprintf(out, "Output directory archived to: %s\n", archivePath)
	return archivePath, nil
}
