package internal

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestGenerateRunID(t *testing.T) {
	now := time.Date(2024, 5, 13, 9, 30, 15, 0, time.UTC)

	id := GenerateRunID(now)

	if !strings.HasPrefix(id, "20240513-093015_") {
		t.Errorf("Expected run ID to start with timestamp, got %s", id)
	}

	pattern := regexp.MustCompile(`^\d{8}-\d{6}_[0-9a-f]{8}$`)
	if !pattern.MatchString(id) {
		t.Errorf("Run ID %q does not match expected format", id)
	}
}

func TestGenerateRunID_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		id := GenerateRunID(now)
		if seen[id] {
			t.Fatalf("Duplicate run ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestGenerateRunID_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2024, 5, 13, 2, 0, 0, 0, loc)

	id := GenerateRunID(now)
	if !strings.HasPrefix(id, "20240512-230000_") {
		t.Errorf("Expected UTC timestamp prefix, got %s", id)
	}
}
