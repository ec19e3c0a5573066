package util

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"surrounding whitespace", "  hello world \n", "hello world"},
		{"control characters", "hel\x00lo\tworld", "hel lo world"},
		{"collapsed runs", "hello   brave\n\nworld", "hello brave world"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce(0.0, 0.0, 2.5); got != 2.5 {
		t.Errorf("Coalesce floats = %g", got)
	}
	if got := Coalesce("", "fallback"); got != "fallback" {
		t.Errorf("Coalesce strings = %q", got)
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("Coalesce all-zero = %d", got)
	}
}
