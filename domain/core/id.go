package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	AARID     ID
	MissionID ID
	RequestID ID
)

// String conversions for domain IDs
func (id AARID) String() string     { return ID(id).String() }
func (id MissionID) String() string { return ID(id).String() }
func (id RequestID) String() string { return ID(id).String() }

// ParseAARID parses a string into AARID
func ParseAARID(s string) (AARID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("AAR ID cannot be empty")
	}
	return AARID(s), nil
}

// ParseMissionID parses a string into MissionID
func ParseMissionID(s string) (MissionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("mission ID cannot be empty")
	}
	return MissionID(s), nil
}
