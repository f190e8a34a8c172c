package suggest

import (
	"slices"
	"testing"
)

func TestSuggestReturnsKnownSnippet(t *testing.T) {
	s := NewSuggester()

	for i := 0; i < 50; i++ {
		response := s.Suggest(Request{Context: "def f():", CursorPosition: 8})
		if !slices.Contains(s.Suggestions(), response.Suggestion) {
			t.Fatalf("unexpected suggestion %q", response.Suggestion)
		}
	}
}

func TestSuggestUsesPicker(t *testing.T) {
	s := NewSuggester()
	s.pick = func(n int) int { return n - 1 }

	response := s.Suggest(Request{})
	if response.Suggestion != "return True" {
		t.Errorf("expected last snippet got %q", response.Suggestion)
	}
}
