package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("week 27 not found"), expected: "Error: week 27 not found"},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("load workout: %w", errors.New("not found")),
			expected: "Error: load workout: not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Format(tt.err); result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("unknown day %q", "lundi")
	if got != `Error: unknown day "lundi"` {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestPanel(t *testing.T) {
	if Panel(nil, "r") != "" {
		t.Error("Panel(nil) should be empty")
	}

	got := Panel(errors.New("workout missing"), "r")
	if !strings.HasPrefix(got, "Error: workout missing") {
		t.Errorf("Panel() = %q, want error prefix", got)
	}
	if !strings.Contains(got, "Press r to reload.") {
		t.Errorf("Panel() = %q, want reload hint", got)
	}
}
