package internal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Version is the application version, overridden at build time via ldflags.
var Version = "0.1.0"

// GenerateRunID creates a unique, sortable ID for one batch run
// Format: YYYYMMDD-HHMMSS_<first 8 chars of a random UUID>
func GenerateRunID(now time.Time) string {
	id := uuid.New().String()[:8]
	return fmt.Sprintf("%s_%s", now.UTC().Format("20060102-150405"), id)
}
