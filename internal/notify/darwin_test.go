//go:build darwin

package notify

import "testing"

func TestEscapeAppleScript(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello", "Hello"},
		{`Hello "World"`, `Hello \"World\"`},
		{`Path\to\file`, `Path\\to\\file`},
		{`Mix "quote" and \slash`, `Mix \"quote\" and \\slash`},
	}

	for _, tc := range tests {
		result := escapeAppleScript(tc.input)
		if result != tc.expected {
			t.Errorf("escapeAppleScript(%q) = %q, want %q", tc.input, result, tc.expected)
		}
	}
}
