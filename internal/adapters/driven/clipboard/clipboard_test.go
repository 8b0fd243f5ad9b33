package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_WriteText(t *testing.T) {
	var got string
	s := &System{
		write:       func(text string) error { got = text; return nil },
		unsupported: func() bool { return false },
	}

	require.NoError(t, s.WriteText("hello"))
	assert.Equal(t, "hello", got)
}

func TestSystem_Unsupported(t *testing.T) {
	called := false
	s := &System{
		write:       func(string) error { called = true; return nil },
		unsupported: func() bool { return true },
	}

	assert.ErrorIs(t, s.WriteText("hello"), ErrUnsupported)
	assert.False(t, called)
}

func TestSystem_WriteError(t *testing.T) {
	boom := errors.New("exit status 1")
	s := &System{
		write:       func(string) error { return boom },
		unsupported: func() bool { return false },
	}

	assert.ErrorIs(t, s.WriteText("x"), boom)
}

func TestNew(t *testing.T) {
	s := New()
	require.NotNil(t, s)
	assert.NotNil(t, s.write)
	assert.NotNil(t, s.unsupported)
}
