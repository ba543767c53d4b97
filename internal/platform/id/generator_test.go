package id

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator(t *testing.T) {
	t.Parallel()

	plain, err := NewUUIDGenerator("").NewID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(plain); err != nil {
		t.Fatalf("expected a uuid, got %q: %v", plain, err)
	}

	gen := NewUUIDGenerator("asg")
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(first, "asg_") {
		t.Fatalf("missing prefix: %q", first)
	}
	if first == second {
		t.Fatalf("ids must be unique")
	}
}
