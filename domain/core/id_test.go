package core

import (
	"errors"
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

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

func TestParseFieldKey(t *testing.T) {
	key, err := ParseFieldKey("  Cholesterol Level ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "Cholesterol Level" {
		t.Errorf("Expected trimmed key, got %q", key)
	}

	if _, err := ParseFieldKey("   "); err == nil {
		t.Error("Expected error for blank field key")
	}

	if _, err := ParseFieldKeys([]string{"Age", ""}); err == nil {
		t.Error("Expected error when any key is blank")
	}
}

func TestErrorClassification(t *testing.T) {
	if !IsSkippable(NewInsufficientDataError("a", 1)) {
		t.Error("insufficient data should only skip a single comparison")
	}
	if !IsSkippable(NewMissingColumnError("BMI")) {
		t.Error("missing column should only skip a single comparison")
	}
	if IsSkippable(NewGroupingError("Gender", 3)) {
		t.Error("non-binary grouping should be fatal")
	}
	if !IsSchemaError(NewGroupingError("Gender", 3)) {
		t.Error("non-binary grouping is a schema error")
	}
	if !errors.Is(NewNonNumericError("Gender"), ErrNonNumeric) {
		t.Error("expected wrapped ErrNonNumeric")
	}
}

func TestHashShort(t *testing.T) {
	h := NewHash([]byte("Age,BMI\n1,2\n"))
	if len(h.String()) != 64 {
		t.Fatalf("expected sha256 hex digest, got %d chars", len(h))
	}
	if len(h.Short()) != 12 {
		t.Errorf("expected 12-char short hash, got %q", h.Short())
	}
}
