package errors

import (
	"strings"
	"testing"
)

func TestTreeTooTallError_MessageNamesChildID(t *testing.T) {
	err := NewTreeTooTallError(70000)
	if !strings.Contains(err.Error(), "70000") {
		t.Errorf("error message %q does not name the child id", err.Error())
	}

	var tall *TreeTooTallError
	if !As(err, &tall) {
		t.Fatal("As failed to find TreeTooTallError in chain")
	}
	if tall.ChildID != 70000 {
		t.Errorf("ChildID = %d, want 70000", tall.ChildID)
	}
}

func TestWithTreeIndex_StampsTypedErrors(t *testing.T) {
	err := Wrap(NewTreeTooTallError(70000), "decoding tree 4")
	err = WithTreeIndex(err, 4)

	var tall *TreeTooTallError
	if !As(err, &tall) {
		t.Fatal("As failed to find TreeTooTallError in wrapped chain")
	}
	if tall.TreeIndex != 4 {
		t.Errorf("TreeIndex = %d, want 4", tall.TreeIndex)
	}

	// Unrelated errors pass through unchanged.
	plain := New("unrelated")
	if got := WithTreeIndex(plain, 7); got != plain {
		t.Errorf("WithTreeIndex rewrote an unrelated error")
	}
}

func TestModelFormatError_Unwrap(t *testing.T) {
	cause := New("short read")
	err := NewModelFormatError("read", "truncated stream", cause)

	if !Is(err, cause) {
		t.Error("Is failed to match the wrapped cause")
	}
	var formatErr *ModelFormatError
	if !As(err, &formatErr) {
		t.Fatal("As failed to find ModelFormatError")
	}
	if formatErr.Op != "read" {
		t.Errorf("Op = %q, want %q", formatErr.Op, "read")
	}
}

func TestMultiOutputError_Message(t *testing.T) {
	err := NewMultiOutputError(3)
	if !strings.Contains(err.Error(), "3 groups") {
		t.Errorf("error message %q does not name the group count", err.Error())
	}
}
