package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errors := []error{
		ErrMissingAssistant,
		ErrMissingIngestor,
		ErrInvalidPorts,
	}

	seen := make(map[string]bool)
	for _, err := range errors {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

func TestErrMissingAssistant_Message(t *testing.T) {
	assert.Contains(t, ErrMissingAssistant.Error(), "assistant")
}

func TestErrMissingIngestor_Message(t *testing.T) {
	assert.Contains(t, ErrMissingIngestor.Error(), "file ingestor")
}

func TestErrInvalidPorts_Message(t *testing.T) {
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
