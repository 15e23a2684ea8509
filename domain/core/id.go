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
	RunID    ID
	FieldKey ID
)

func (id RunID) String() string    { return ID(id).String() }
func (id FieldKey) String() string { return ID(id).String() }

// NewRunID creates a fresh report run identifier
func NewRunID() RunID {
	return RunID(NewID())
}

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}

// ParseFieldKey parses a column name, trimming surrounding whitespace
func ParseFieldKey(s string) (FieldKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("field key cannot be empty")
	}
	return FieldKey(s), nil
}

// ParseFieldKeys parses a list of column names, failing on the first empty one
func ParseFieldKeys(ss []string) ([]FieldKey, error) {
	keys := make([]FieldKey, 0, len(ss))
	for _, s := range ss {
		k, err := ParseFieldKey(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
