package errors

import (
	"fmt"
	"testing"
)

func TestDocgenError_Error(t *testing.T) {
	err := &DocgenError{
		Code:    ErrGrammar,
		Message: "unterminated block",
	}

	expected := "GRAMMAR: unterminated block"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}

	err.Line = 12
	expected = "line 12: GRAMMAR: unterminated block"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewGrammar(t *testing.T) {
	err := NewGrammar(4, "unknown tag @%s", "frobnicate")

	if err.Code != ErrGrammar {
		t.Errorf("Code = %q, want %q", err.Code, ErrGrammar)
	}
	if err.Line != 4 {
		t.Errorf("Line = %d, want 4", err.Line)
	}
	if err.Message != "unknown tag @frobnicate" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewCapacity(t *testing.T) {
	err := NewCapacity(9, "tag name", 32)

	if err.Code != ErrCapacity {
		t.Errorf("Code = %q, want %q", err.Code, ErrCapacity)
	}
	if err.Details["max"] != 32 {
		t.Errorf("Details[max] = %v, want 32", err.Details["max"])
	}
}

func TestNewMissingCompanion(t *testing.T) {
	err := NewMissingCompanion(5, "param", "type")

	if err.Code != ErrGrammar {
		t.Errorf("Code = %q, want %q", err.Code, ErrGrammar)
	}
	if err.Line != 5 {
		t.Errorf("Line = %d, want 5", err.Line)
	}
	if err.Details["companion"] != "type" {
		t.Errorf("Details[companion] = %v, want type", err.Details["companion"])
	}
}

func TestNewUnknownEmbed(t *testing.T) {
	err := NewUnknownEmbed("function", "frob")

	if err.Code != ErrReference {
		t.Errorf("Code = %q, want %q", err.Code, ErrReference)
	}
	if err.Message != "unknown embed `frob`" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("disk on fire"))
	if err.Code != ErrInternal || err.Message != "disk on fire" {
		t.Errorf("unexpected error %+v", err)
	}

	err = NewInternal(nil)
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestInFile(t *testing.T) {
	orig := NewGrammar(3, "bad")
	withFile := orig.InFile("add.c")

	if withFile.Details["file"] != "add.c" {
		t.Errorf("Details[file] = %v, want add.c", withFile.Details["file"])
	}
	if orig.Details != nil {
		t.Errorf("InFile mutated the original error")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", NewConfig(0, "bad format"), ErrConfig, true},
		{"different code", NewConfig(0, "bad format"), ErrGrammar, false},
		{"wrapped", fmt.Errorf("generate: %w", NewUnknownEmbed("constant", "X")), ErrReference, true},
		{"plain error", fmt.Errorf("plain"), ErrInternal, false},
		{"nil", nil, ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineOf(t *testing.T) {
	if got := LineOf(fmt.Errorf("x: %w", NewGrammar(7, "bad"))); got != 7 {
		t.Errorf("LineOf() = %d, want 7", got)
	}
	if got := LineOf(fmt.Errorf("plain")); got != 0 {
		t.Errorf("LineOf() = %d, want 0", got)
	}
}

func TestWithAndAs(t *testing.T) {
	orig := NewReference(4, "bad").InFile("a.c")
	grouped := orig.With("group", "add")

	if grouped.Details["file"] != "a.c" || grouped.Details["group"] != "add" {
		t.Errorf("Details = %v, want file and group", grouped.Details)
	}
	if _, ok := orig.Details["group"]; ok {
		t.Errorf("With mutated the original error")
	}

	got, ok := As(fmt.Errorf("render: %w", grouped))
	if !ok || got.Line != 4 {
		t.Errorf("As() = %v, %v; want line 4", got, ok)
	}
	if _, ok := As(fmt.Errorf("plain")); ok {
		t.Errorf("As() matched a plain error")
	}
}

func TestNewCancelled(t *testing.T) {
	err := NewCancelled("generate")
	if err.Code != ErrCancelled {
		t.Errorf("Code = %q, want %q", err.Code, ErrCancelled)
	}
	if err.Error() != "CANCELLED: generate cancelled" {
		t.Errorf("Error() = %q", err.Error())
	}
}
