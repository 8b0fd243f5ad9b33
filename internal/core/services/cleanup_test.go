package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "The total is 42.", "The total is 42."},
		{"inline tags", "<answer>The total is **42**.</answer>", "The total is 42."},
		{"code fence", "```python\nprint(42)\n```", "print(42)"},
		{"paragraphs", "First.\n\nSecond with `code`.", "First.\n\nSecond with code."},
		{"link", "See [the docs](https://example.com).", "See the docs."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanResponse(tt.in))
		})
	}
}
