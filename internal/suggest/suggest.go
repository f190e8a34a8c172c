package suggest

import "math/rand/v2"

var defaultSuggestions = []string{
	"print('Hello World')",
	"def mock_function():\n    pass",
	"import os\nimport sys",
	"return True",
}

type Request struct {
	Context        string `json:"context"`
	CursorPosition int    `json:"cursor_position"`
}

type Response struct {
	Suggestion string `json:"suggestion"`
}

// Suggester returns canned completions. The request is not inspected.
type Suggester struct {
	suggestions []string
	pick        func(n int) int
}

func NewSuggester() *Suggester {
	return &Suggester{
		suggestions: defaultSuggestions,
		pick:        rand.IntN,
	}
}

func (s *Suggester) Suggest(_ Request) Response {
	return Response{Suggestion: s.suggestions[s.pick(len(s.suggestions))]}
}

func (s *Suggester) Suggestions() []string {
	out := make([]string, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}
