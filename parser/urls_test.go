package parser

import "testing"

func TestResolverAbsolute(t *testing.T) {
	r := NewResolver("https://play.google.com")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "root relative", input: "/store/apps/dev?id=123", expected: "https://play.google.com/store/apps/dev?id=123"},
		{name: "protocol relative", input: "//lh3.googleusercontent.com/abc=w720", expected: "https://lh3.googleusercontent.com/abc=w720"},
		{name: "absolute", input: "https://www.youtube.com/embed/xyz?ps=play", expected: "https://www.youtube.com/embed/xyz?ps=play"},
		{name: "fragment kept", input: "/store/apps/details?id=a#details-reviews", expected: "https://play.google.com/store/apps/details?id=a#details-reviews"},
		{name: "surrounding whitespace", input: "  /store/apps  ", expected: "https://play.google.com/store/apps"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Absolute(tt.input); got != tt.expected {
				t.Fatalf("Absolute(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolverAbsoluteOptional(t *testing.T) {
	r := NewResolver("https://play.google.com/")
	if got := r.AbsoluteOptional(""); got != nil {
		t.Fatalf("empty ref should be nil, got %q", *got)
	}
	got := r.AbsoluteOptional("/x")
	if got == nil || *got != "https://play.google.com/x" {
		t.Fatalf("AbsoluteOptional(/x) = %v", got)
	}
}
