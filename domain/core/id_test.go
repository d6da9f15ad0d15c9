package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestParseAARID tests AAR ID parsing
func TestParseAARID(t *testing.T) {
	tests := []struct {
		input    string
		expected AARID
		hasError bool
	}{
		{"aar_abc123", AARID("aar_abc123"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseAARID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

// TestParseMissionID tests mission ID parsing
func TestParseMissionID(t *testing.T) {
	if _, err := ParseMissionID(""); err == nil {
		t.Error("Expected error for empty mission ID")
	}
	id, err := ParseMissionID("mission-1")
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if id != MissionID("mission-1") {
		t.Errorf("Expected mission-1, got %s", id)
	}
}

// TestNewHash tests deterministic hashing
func TestNewHash(t *testing.T) {
	h1 := NewHash([]byte("payload"))
	h2 := NewHash([]byte("payload"))
	h3 := NewHash([]byte("different"))

	if !h1.Equals(h2) {
		t.Error("Expected identical hashes for identical input")
	}
	if h1.Equals(h3) {
		t.Error("Expected different hashes for different input")
	}
	if len(h1.String()) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(h1.String()))
	}
}
