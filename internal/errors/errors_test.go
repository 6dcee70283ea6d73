package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New("B101", CategoryInvariant, "duplicate key %q", "a")
	want := `B101: duplicate key "a"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorStringNoCode(t *testing.T) {
	err := &Error{Message: "plain"}
	if err.Error() != "plain" {
		t.Errorf("Error() = %q, want %q", err.Error(), "plain")
	}
}

func TestUnwrap(t *testing.T) {
	inner := fmt.Errorf("inner")
	err := New("B102", CategoryReconcile, "outer").Wrap(inner)

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestFromCode(t *testing.T) {
	err := FromCode("B101")
	if err.Category != CategoryInvariant {
		t.Errorf("Category = %v, want %v", err.Category, CategoryInvariant)
	}
	if err.Message == "" {
		t.Error("registered code should carry a message")
	}
}

func TestFromCodeUnknown(t *testing.T) {
	err := FromCode("B999")
	if err.Code != "B999" {
		t.Errorf("Code = %q, want B999", err.Code)
	}
	if err.Message != "unknown error" {
		t.Errorf("Message = %q, want %q", err.Message, "unknown error")
	}
}

func TestIsRegistered(t *testing.T) {
	if !IsRegistered("B102") {
		t.Error("B102 should be registered")
	}
	if IsRegistered("B999") {
		t.Error("B999 should not be registered")
	}
}

func TestWithSuggestionAndDetail(t *testing.T) {
	err := New("B301", CategoryConfig, "bad config").
		WithDetail("missing host").
		WithSuggestion("set \"host\" in bindkit.json")

	if err.Detail != "missing host" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Suggestion == "" {
		t.Error("Suggestion should be set")
	}
}

func TestCodesSortedAndRegistered(t *testing.T) {
	codes := Codes()
	if len(codes) == 0 {
		t.Fatal("no registered codes")
	}
	for i, code := range codes {
		if !IsRegistered(code) {
			t.Errorf("Codes returned unregistered %q", code)
		}
		if i > 0 && codes[i-1] >= code {
			t.Errorf("codes out of order: %q before %q", codes[i-1], code)
		}
	}
}
